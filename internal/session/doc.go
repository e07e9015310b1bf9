// Package session manages per-run scratch directories for files
// being edited.
//
// # Workspace
//
// A Workspace owns one temporary directory. Ingest copies incoming
// bytes into it under a unique name, keeping the original extension
// so format detection keeps working:
//
//	ws, err := session.NewWorkspace("")
//	defer ws.Close()
//	path, err := ws.Ingest("song.mp3", data)
//
// Export reads a file back out and Remove deletes a single file;
// Close removes the whole directory.
package session
