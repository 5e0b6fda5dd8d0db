package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures of the answering pipeline. Only provisioning
// and generation failures stop a request; fetch failures are reported to the
// caller, which decides whether to degrade.
var (
	ErrTagProvisioning = goerr.NewTag("provisioning")
	ErrTagFetch        = goerr.NewTag("fetch")
	ErrTagGeneration   = goerr.NewTag("generation")
	ErrTagTemplate     = goerr.NewTag("template")
	ErrTagConfig       = goerr.NewTag("config")
)
