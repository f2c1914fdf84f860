package model

import gDto "purohit/shared/dto"

type Outcome string

const (
	OutcomePermit   Outcome = "permit"
	OutcomeDeny     Outcome = "deny"
	OutcomeLoading  Outcome = "loading"
	OutcomeRedirect Outcome = "redirect"
)

const (
	MessageLoginRequired = "Please log in to continue"
	MessageAdminsOnly    = "Unauthorized: Admins only"
	MessageAdminCheck    = "Could not verify admin access"
	MessageCheckingAdmin = "Checking admin access..."
)

// Decision is the gate's answer for one navigation. Redirect is set for deny
// and redirect outcomes.
type Decision struct {
	Path     string         `json:"path"`
	Outcome  Outcome        `json:"outcome"`
	Redirect string         `json:"redirect,omitempty"`
	Advisory *gDto.Advisory `json:"advisory,omitempty"`
}

func Permit(path string) Decision {
	return Decision{Path: path, Outcome: OutcomePermit}
}

func Loading(path string) Decision {
	return Decision{
		Path:     path,
		Outcome:  OutcomeLoading,
		Advisory: gDto.NewAdvisory(gDto.AdvisoryInfo, MessageCheckingAdmin),
	}
}

func Deny(path, redirect string, advisory *gDto.Advisory) Decision {
	return Decision{Path: path, Outcome: OutcomeDeny, Redirect: redirect, Advisory: advisory}
}
