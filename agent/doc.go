/*
Package agent is a package for the wallet holder and its services. The
holder.Agent is the most important abstraction of the package. It's the
orchestrator which the UI drives. The other packages offer specific services
for the holder.Agent to be able to perform its duties.

The agent package is empty itself. All the functionality is inside sub-packages.
Summary of the packages:

 holder     the orchestrator: startup, teardown, credential and proof requests
 keychain   typed view to the persisted state in the Secret Store
 messaging  the Messaging Agent interface and its message types
 pltype     message kinds and credential types
 prot       inbound dispatcher with de-duplication and the send outbox
 remote     REST client of the cloud agent
 sidecar    the Messaging Agent over a websocket to the SDK sidecar
 status     status publisher for the UI
 utils      runtime settings, version and helpers
 vc         credential decoding, schema ids and DIDs
 watcher    polls the issuer DID until it's published
*/
package agent
