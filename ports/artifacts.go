package ports

// ArtifactWriter persists one named output file of a run. Implementations
// must write deterministically: identical content in, identical bytes out.
type ArtifactWriter interface {
	WriteArtifact(name string, content []byte) (path string, err error)
}
