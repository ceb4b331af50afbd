/*
Package main is an application package for the Anchora orchestrator. The
orchestrator sits between a trust-registry backend and a multi-tenant
agent admin API and drives the ledger-facing ceremonies that tenants
cannot run alone: onboarding issuers and verifiers, anchoring public
DIDs thru an endorser, publishing credential definitions with their
revocation registries and running the revocation lifecycle.

You can use the orchestrator and related Go packages roughly for three
purposes:

1. As a CLI tool for onboarding tenants, publishing credential
definitions and revoking credentials against a running agent.

2. As a long-running endorser service that keeps endorsing the
transaction requests authors submit to the endorser wallet.

3. As a framework: the protocol packages expose the onboarding,
credential definition and revocation state machines for embedding into
an own service.

# Sub-packages

The repo is structured to the following sub-packages:

	agent    agent admin API client and the shared retry primitives
	cmd      cobra commands of the CLI
	cmds     command objects behind the CLI, usable from own code
	protocol processors for the orchestration ceremonies
*/
package main
