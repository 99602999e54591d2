package holder

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/findy-network/findy-wallet/agent/keychain"
	"github.com/findy-network/findy-wallet/agent/messaging"
	"github.com/findy-network/findy-wallet/agent/pltype"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/status"
	"github.com/findy-network/findy-wallet/agent/vc"
	"github.com/findy-network/findy-wallet/std/schema"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// issuerTemplate is the DID document template of a new issuer DID.
var issuerTemplate = remote.DocumentTemplate{
	PublicKeys: []remote.PublicKey{
		{ID: "auth-1", Purpose: remote.PurposeAuthentication},
		{ID: "issue-1", Purpose: remote.PurposeAssertionMethod},
	},
	Services: []remote.Service{},
}

// StartUpAndConnect provisions the wallet and connects it to the cloud
// agent. The steps are run in order and each is skipped when its result is
// already persisted. The status follows the steps and it's Ready at the end,
// or Error if a step failed.
func (a *Agent) StartUpAndConnect(ctx context.Context) (err error) {
	a.startMu.Lock()
	defer a.startMu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	a.setAbort(cancel)
	defer func() {
		a.setAbort(nil)
		cancel()
	}()
	defer err2.Handle(&err, func(err error) error {
		glog.Errorln("startup:", err)
		a.status.Set(status.Failed(err))
		return err
	})

	a.status.SetPhase(status.Starting)
	try.To(a.bootstrapIdentity(ctx))
	try.To(a.startDispatcher(ctx))

	a.status.SetPhase(status.Connecting)
	try.To(provisioningErr(Connection, a.connect(ctx)))

	try.To(a.bootstrapIssuer(ctx))

	a.status.SetPhase(status.CreatingSchema)
	try.To(provisioningErr(Schema, a.bootstrapSchemas(ctx)))

	a.status.SetPhase(status.Ready)
	glog.V(1).Infoln("wallet ready")
	return nil
}

// bootstrapIdentity creates the seed if it's missing and starts the
// Messaging Agent with it. A failing start doesn't stop the startup.
func (a *Agent) bootstrapIdentity(ctx context.Context) error {
	seed, found, err := a.keys.Seed()
	if err != nil {
		return provisioningErr(SeedPersistence, err)
	}
	if !found {
		seed = make([]byte, keychain.SeedLength)
		if _, err := rand.Read(seed); err != nil {
			return provisioningErr(SeedPersistence, err)
		}
		if err := a.keys.SetSeed(seed); err != nil {
			return provisioningErr(SeedPersistence, err)
		}
		glog.V(1).Infoln("new wallet seed:", Fingerprint(seed))
	}

	if a.msgs.State() == messaging.Running {
		return nil
	}
	if err := a.msgs.Start(ctx, seed); err != nil {
		perr := provisioningErr(MessagingStart, err)
		glog.Errorln(perr)
		a.status.Set(status.Status{Phase: status.Starting, Detail: perr.Error()})
	}
	return nil
}

// connect verifies the persisted connection or makes a new one.
func (a *Agent) connect(ctx context.Context) (err error) {
	defer err2.Handle(&err)

	id, found := try.To2(a.keys.ConnectionID())
	if found {
		if a.connectionAlive(ctx, id) {
			glog.V(1).Infoln("connection ok:", id)
			return nil
		}
		glog.Warningln("persisted connection isn't valid, reconnecting:", id)
	}

	conn := try.To1(a.remote.CreateInvitation(ctx, a.cfg.Label))
	inv := try.To1(a.msgs.ParseInvitation(ctx, conn.Invitation.InvitationURL))
	try.To(a.msgs.AcceptInvitation(ctx, inv))

	if inv.ID != conn.Invitation.ID {
		glog.Warningf("invitation id %s doesn't match %s, connection not saved",
			inv.ID, conn.Invitation.ID)
		return nil
	}
	try.To(a.keys.SetConnectionID(conn.ConnectionID))
	glog.V(1).Infoln("connected:", conn.ConnectionID)
	return nil
}

func (a *Agent) connectionAlive(ctx context.Context, id string) bool {
	conns, err := a.remote.GetConnections(ctx)
	if err != nil {
		glog.Warningln("get connections:", err)
		return false
	}
	for _, c := range conns {
		if c.ConnectionID == id && c.Label == a.cfg.Label {
			return true
		}
	}
	return false
}

// bootstrapIssuer makes sure the wallet has a published issuer DID.
func (a *Agent) bootstrapIssuer(ctx context.Context) error {
	dids, err := a.remote.ListDIDs(ctx)
	if err != nil {
		return provisioningErr(IssuerIdentity, err)
	}
	persisted, _, err := a.keys.IssuerDID()
	if err != nil {
		return provisioningErr(IssuerIdentity, err)
	}

	chosen := chooseDID(dids, persisted)
	if chosen == nil {
		return a.createIssuer(ctx)
	}

	ref := chosen.LongFormDID
	if ref == "" {
		ref = chosen.DID
	}
	if !chosen.Published() {
		a.status.SetPhase(status.PublishingIssuerDID)
		if chosen.Status == remote.StatusCreated {
			if _, err := a.remote.RequestPublication(ctx, ref); err != nil {
				return provisioningErr(Publication, err)
			}
		}
		if err := a.watcher.WaitPublished(ctx, ref); err != nil {
			return provisioningErr(Publication, err)
		}
	}
	if ref != persisted {
		if err := a.keys.SetIssuerDID(ref); err != nil {
			return provisioningErr(IssuerIdentity, err)
		}
	}
	glog.V(1).Infoln("issuer DID:", ref)
	return nil
}

func (a *Agent) createIssuer(ctx context.Context) error {
	created, err := a.remote.CreateIssuerDID(ctx, issuerTemplate)
	if err != nil {
		return provisioningErr(IssuerIdentity, err)
	}
	if created.LongFormDID == "" {
		return provisioningErr(IssuerIdentity, errors.New("cloud agent returned no DID"))
	}
	if err := a.keys.SetIssuerDID(created.LongFormDID); err != nil {
		return provisioningErr(IssuerIdentity, err)
	}
	glog.V(1).Infoln("issuer DID created:", created.LongFormDID)

	a.status.SetPhase(status.PublishingIssuerDID)
	if _, err := a.remote.RequestPublication(ctx, created.LongFormDID); err != nil {
		return provisioningErr(Publication, err)
	}
	return provisioningErr(Publication, a.watcher.WaitPublished(ctx, created.LongFormDID))
}

// chooseDID prefers the persisted DID if the cloud agent has it, else the
// first one.
func chooseDID(dids []remote.ManagedDID, persisted string) *remote.ManagedDID {
	if len(dids) == 0 {
		return nil
	}
	if persisted != "" {
		for i := range dids {
			if dids[i].LongFormDID == persisted || dids[i].DID == persisted {
				return &dids[i]
			}
		}
	}
	return &dids[0]
}

// bootstrapSchemas makes sure every credential type has a schema in the
// registry.
func (a *Agent) bootstrapSchemas(ctx context.Context) (err error) {
	defer err2.Handle(&err)

	issuer := try.To1(a.keys.MustIssuerDID())
	author := try.To1(vc.ShortDID(issuer))

	for _, t := range pltype.CredTypes() {
		guid, found := try.To2(a.keys.SchemaID(t))
		if found {
			_, exists := try.To2(a.remote.GetSchemaByGUID(ctx, guid))
			if exists {
				glog.V(1).Infof("%s schema ok: %s", t, guid)
				continue
			}
			glog.Warningf("%s schema %s not found, creating new", t, guid)
		}
		created := try.To1(a.remote.CreateSchema(ctx, schema.Document(t, author)))
		if created.GUID == "" {
			return fmt.Errorf("%s schema: cloud agent returned no GUID", t)
		}
		try.To(a.keys.SetSchemaID(t, created.GUID))
		glog.V(1).Infof("%s schema created: %s", t, created.GUID)
	}
	return nil
}
