package types

// FileSelector decides whether a template file is deployable. It returns the
// deployed file name and true, or false when the file is ignored.
type FileSelector func(name string) (string, bool)

// ManagedCategory is one named class of deployed files. SourcePath is
// relative to the template source, TargetPath relative to the deployment
// root; both are slash-separated.
type ManagedCategory struct {
	Name       string
	SourcePath string
	TargetPath string
	Selector   FileSelector
}
