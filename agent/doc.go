/*
Package agent holds the packages the orchestration flows are built from:
the admin API client of the external cryptographic-identity agent and the
shared primitives around it. The package is empty itself; all the
functionality is inside sub-packages.

Summary of the packages:

	acapy   typed client for the agent admin API, one Client per wallet
	apierr  the error taxonomy shared by the flows
	endorse endorsement waits and the author-endorser handshake
	poll    the condition-polling primitive the waiters are built on
	utils   helpers for DID qualification, verkeys and versioning
*/
package agent
