/*
Package protocol is package for the credential protocol state machines of the
holder. Processors implement the actual protocol state transitions of the
issuance and the presentation flows. The persisted thread ids of the pending
flows are kept in agent/keychain.

These processors include the dynamic logic of the protocol state machines. When
new credential flows are needed they are put here.
*/
package protocol
