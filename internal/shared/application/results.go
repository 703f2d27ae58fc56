package application

import "errors"

// CommandResults is the ordered aggregate of every handler's result for one dispatch.
type CommandResults struct {
	results []CommandResult
}

// NewCommandResults creates an aggregate from results in invocation order.
func NewCommandResults(results ...CommandResult) CommandResults {
	copied := make([]CommandResult, len(results))
	copy(copied, results)
	return CommandResults{results: copied}
}

// Success is true when every contained result succeeded. An empty aggregate is successful.
func (r CommandResults) Success() bool {
	for _, result := range r.results {
		if !result.Success {
			return false
		}
	}
	return true
}

// Len returns the number of results.
func (r CommandResults) Len() int {
	return len(r.results)
}

// Results returns a copy of the results in invocation order.
func (r CommandResults) Results() []CommandResult {
	copied := make([]CommandResult, len(r.results))
	copy(copied, r.results)
	return copied
}

// Messages returns the non-empty messages in invocation order.
func (r CommandResults) Messages() []string {
	messages := make([]string, 0, len(r.results))
	for _, result := range r.results {
		if result.HasMessage() {
			messages = append(messages, result.Message)
		}
	}
	return messages
}

// Failures returns the failed results in invocation order.
func (r CommandResults) Failures() []CommandResult {
	var failures []CommandResult
	for _, result := range r.results {
		if !result.Success {
			failures = append(failures, result)
		}
	}
	return failures
}

// Err joins the causes of all failed results, or returns nil when all succeeded.
func (r CommandResults) Err() error {
	var errs []error
	for _, result := range r.Failures() {
		if result.Err != nil {
			errs = append(errs, result.Err)
		} else {
			errs = append(errs, errors.New(result.Message))
		}
	}
	return errors.Join(errs...)
}
