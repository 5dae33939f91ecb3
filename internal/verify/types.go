package verify

type Mismatch struct {
	Path     string
	Expected string
	Computed string
}

// Failure is an entry that could not be checked at all.
type Failure struct {
	Path string
	Err  error
}

type Result struct {
	Algorithm  string
	Mismatches []Mismatch
	Failures   []Failure
}

type Options struct {
	Workers int
}
