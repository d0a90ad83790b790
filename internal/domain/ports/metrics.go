package ports

// VerificationMetrics registra eventos do fluxo de verificação
type VerificationMetrics interface {
	CodeRequested(channel string)
	CodeConfirmed()
	CodeRejected(reason string)
}

// NopVerificationMetrics descarta tudo
type NopVerificationMetrics struct{}

func (NopVerificationMetrics) CodeRequested(string) {}
func (NopVerificationMetrics) CodeConfirmed()       {}
func (NopVerificationMetrics) CodeRejected(string)  {}
