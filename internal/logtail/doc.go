// Package logtail reads the tail of the client log for the diagnostics view.
//
// # Overview
//
// The TUI owns the terminal, so the client logs to a file. The diagnostics
// view shows the last few hundred lines of that file: refresh failures,
// rolled-back cart mutations and request traces at debug level.
//
// # Reading Log Files
//
// Read makes one pass over the file and keeps at most twice maxLines in
// memory, however large the log has grown:
//
//	lines, err := logtail.Read(cfg.LogPath(), 400)
//	if err != nil {
//		return err
//	}
//
// A non-positive maxLines returns the whole file. A missing file is not an
// error; it returns nil, nil.
//
// # Parsing
//
// Parse decodes one zap JSON record into an Entry with the level, logger and
// message split out and the remaining fields rendered as sorted key=value
// pairs. Console-format lines and panics pass through as Raw. Styling is left
// to the UI.
package logtail
