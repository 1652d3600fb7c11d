package service

// AuthEvent names a credential operation for monitoring.
type AuthEvent string

const (
	AuthEventRegister     AuthEvent = "register"
	AuthEventLogin        AuthEvent = "login"
	AuthEventOAuthLogin   AuthEvent = "oauth_login"
	AuthEventTokenVerify  AuthEvent = "token_verify"
	AuthEventResetRequest AuthEvent = "reset_request"
	AuthEventResetVerify  AuthEvent = "reset_verify"
	AuthEventResetConsume AuthEvent = "reset_consume"
)

// AuthOutcome is the result label of an AuthEvent.
type AuthOutcome string

const (
	AuthOutcomeSuccess AuthOutcome = "success"
	AuthOutcomeFailure AuthOutcome = "failure"
)

// OutcomeOf maps an operation error to its outcome label.
func OutcomeOf(err error) AuthOutcome {
	if err != nil {
		return AuthOutcomeFailure
	}

	return AuthOutcomeSuccess
}

// AuthEventRecorder counts credential operations by outcome.
type AuthEventRecorder interface {
	RecordAuthEvent(event AuthEvent, outcome AuthOutcome)
}
