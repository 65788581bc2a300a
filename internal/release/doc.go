// Package release sequences the release-cycle workflows: cutting a release
// branch, starting the next development cycle, cutting an ESR/Release dot
// release, and the iOS merge day. Each workflow is a linear pipeline of
// pure calls into the version and changelog packages; all git and file I/O
// goes through the Repository and Workspace collaborators so the workflows
// can be exercised against fakes. No state survives a run.
package release
