/*
Package main is the application package of the Findy wallet, a digital
identity wallet holder. The wallet keeps its seed and state in a local
enclave, receives DIDComm messages through a Messaging Agent sidecar, and
drives a cloud agent over REST to get credentials issued to it and to prove
them.

The same cloud agent acts as the issuer and the verifier. At startup the wallet
connects to it, makes it create and publish an issuer DID, and creates the
credential schemas. After that the UI asks credential offers and proof
requests through the control API, and the wallet answers the protocol
messages on its own.

# About the build-in CLI

The serve command runs the wallet daemon. The other commands call the control
API of a running daemon or work on the local enclave. Every flag can be given
as an environment variable with the FWAL_ prefix or in a config file.

# Sub-packages

	agent    includes the orchestrator and its parts: holder, keychain,
	         messaging, sidecar, remote, status, watcher, vc, prot
	enclave  implements the sealed box of the wallet's persisted state
	protocol includes the issuance and presentation state machines
	server   implements the control API for the UI
	std      includes the credential claims and schemas
*/
package main
