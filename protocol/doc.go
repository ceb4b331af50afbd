/*
Package protocol is the package for the orchestration ceremony
processors. Each processor implements the state transitions of one
ledger-facing flow on top of the agent packages: onboarding drives
tenant provisioning, creddef the credential definition publication,
revocation the revocation lifecycle and endorsement the endorser's
sweep over pending transaction requests.
*/
package protocol
