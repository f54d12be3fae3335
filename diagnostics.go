package dynamicfields

// DiagnosticCode identifies a non-fatal condition encountered while
// resolving query parameters.
type DiagnosticCode string

const (
	// DiagNoRequestContext is reported when Compute is called without a
	// parameter source, i.e. outside an active request cycle.
	DiagNoRequestContext DiagnosticCode = "no_request_context"

	// DiagNoParamSource is reported when a parameter source is present
	// but no usable parameter bag can be reached through it.
	DiagNoParamSource DiagnosticCode = "no_param_source"
)

// Diagnostic describes a non-fatal condition. Diagnostics never abort
// response construction; the affected parameter degrades to "no
// filtering".
type Diagnostic struct {
	Code    DiagnosticCode
	Message string
}

func (d Diagnostic) String() string {
	return string(d.Code) + ": " + d.Message
}
