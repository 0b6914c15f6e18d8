// Package subprocess runs a single shell command under supervision: the
// command is spawned in its own session, its merged stdout/stderr stream is
// decoded and forwarded line by line as it is produced, and the last
// non-empty line is returned once the command exits successfully.
//
// Group-wide termination is only guaranteed on Unix-like systems, where the
// child is made a session leader and Terminate signals the whole process
// group, reaching any grandchildren the shell forked. On Windows the hook
// offers best-effort semantics: the direct child receives the termination
// request, but descendants it spawned may remain running and must be cleaned
// up separately by the caller.
package subprocess
