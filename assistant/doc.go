// Package assistant assembles the personal-assistant agent: a persona built
// from configuration, the standard toolset (bio lookup, message relay,
// meeting requests, file access, shell execution) and a bounded run loop
// that drives a model through tool calls until it produces a final answer.
//
// Every tool returns a plain structured record with at least a "status"
// field and, where relevant, a human-readable "disposition" string. Tools
// catch their own faults: internal error text is logged, never echoed to the
// model, with the single deliberate exception of execute_command, whose
// contract is to return the child process streams verbatim.
package assistant
