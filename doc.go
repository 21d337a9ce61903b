// Command-line usage aside, this package's entry point is Scheduler.
// RunToCompletion: construct a Scheduler with NewScheduler, then call
// RunToCompletion once per trace. See cmd/wfqsim for a runnable CLI.
package wfq
