// Package command provides a bounded shell command executor: a single
// external command is run via the host shell under a hard wall-clock timeout,
// with stdout, stderr and exit code captured. The shell runs in its own
// process group and the whole group is killed on expiry, so the caller is
// guaranteed a result within the timeout plus small scheduling slack even
// when the command leaves background children behind.
//
// SECURITY: there is no sandboxing and no allow-list. Commands run with the
// caller's privileges and working directory. Safety is explicitly the
// caller's responsibility; see the README before wiring this into anything
// that accepts untrusted input.
package command
