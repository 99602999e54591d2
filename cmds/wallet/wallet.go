/*
Package wallet holds the commands of the wallet daemon and its clients. Cmd
runs the daemon: it opens the enclave, builds the orchestrator with the cloud
agent client and the sidecar Messaging Agent, schedules the enclave backups,
and serves the control API until it's stopped. The other commands call a
running daemon's control API or work on the local enclave.
*/
package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/findy-network/findy-wallet/agent/holder"
	"github.com/findy-network/findy-wallet/agent/remote"
	"github.com/findy-network/findy-wallet/agent/sidecar"
	"github.com/findy-network/findy-wallet/agent/utils"
	"github.com/findy-network/findy-wallet/cmds"
	"github.com/findy-network/findy-wallet/enclave"
	"github.com/findy-network/findy-wallet/server"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Cmd is the wallet daemon.
type Cmd struct {
	CloudAgentURL string
	APIKey        string
	SchemaBaseURL string
	Label         string
	Domain        string

	SidecarURL string

	EnclavePath       string
	EnclaveKey        string
	EnclaveBackupName string
	EnclaveBackupTime string

	ServerPort     uint
	AllowedOrigins []string
	AutoStart      bool

	PollInterval    time.Duration
	PublishTimeout  time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	QueueSize       int
}

// DefaultValues are the daemon's defaults.
var DefaultValues = Cmd{
	Label:             holder.DefaultLabel,
	SidecarURL:        "ws://localhost:8090/ws",
	EnclaveBackupTime: "03:00",
	ServerPort:        8088,
	PollInterval:      utils.DefaultPollInterval,
	ShutdownTimeout:   utils.DefaultShutdownTimeout,
	RequestTimeout:    30 * time.Second,
	QueueSize:         64,
}

func (c *Cmd) Validate() error {
	if err := validateURL(c.CloudAgentURL, "http", "https"); err != nil {
		return fmt.Errorf("cloud agent URL: %w", err)
	}
	if c.SchemaBaseURL != "" {
		if err := validateURL(c.SchemaBaseURL, "http", "https"); err != nil {
			return fmt.Errorf("schema base URL: %w", err)
		}
	}
	if err := validateURL(c.SidecarURL, "ws", "wss"); err != nil {
		return fmt.Errorf("sidecar URL: %w", err)
	}
	if err := ValidateEnclaveKey(c.EnclaveKey); err != nil {
		return err
	}
	if c.EnclaveBackupTime != "" {
		if err := cmds.ValidateTime(c.EnclaveBackupTime); err != nil {
			return err
		}
	}
	if c.ServerPort == 0 {
		return errors.New("server port cannot be zero")
	}
	if c.QueueSize < 0 {
		return errors.New("queue size cannot be negative")
	}
	if c.PollInterval < 0 || c.PublishTimeout < 0 || c.ShutdownTimeout < 0 ||
		c.RequestTimeout < 0 {
		return errors.New("durations cannot be negative")
	}
	if c.EnclaveKey == "" {
		glog.Warning("enclave key isn't set, use it in production")
	}
	return nil
}

// ValidateEnclaveKey checks that the key is empty or 32 bytes in hex.
func ValidateEnclaveKey(k string) error {
	if k == "" {
		return nil
	}
	b, err := hex.DecodeString(k)
	if err != nil || len(b) != 32 {
		return errors.New("enclave key must be 32 bytes in hex")
	}
	return nil
}

func validateURL(s string, schemes ...string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return err
	}
	for _, scheme := range schemes {
		if u.Scheme == scheme && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%q must be an absolute %v URL", s, schemes)
}

// Setup writes the runtime settings.
func (c *Cmd) Setup() {
	utils.Settings.SetVersionInfo("findy-wallet " + utils.Version)
	utils.Settings.SetTimeout(c.RequestTimeout)
	utils.Settings.SetPollInterval(c.PollInterval)
	utils.Settings.SetPublishTimeout(c.PublishTimeout)
	utils.Settings.SetShutdownTimeout(c.ShutdownTimeout)
	utils.Settings.SetEnclaveBackupTime(c.EnclaveBackupTime)
}

func (c *Cmd) enclavePath() string {
	if c.EnclavePath == "" {
		return utils.DefaultEnclavePath()
	}
	return c.EnclavePath
}

// Wallet is an opened wallet: the orchestrator and its enclave.
type Wallet struct {
	*holder.Agent
	Enclave *enclave.Enclave
}

// Close closes the enclave.
func (w *Wallet) Close() error {
	return w.Enclave.Close()
}

// Open opens the enclave and builds the orchestrator. Nothing is started.
func (c *Cmd) Open() (w *Wallet, err error) {
	defer err2.Handle(&err, "open wallet")

	rc := try.To1(remote.New(remote.Config{
		BaseURL: c.CloudAgentURL,
		APIKey:  c.APIKey,
		Timeout: utils.Settings.Timeout(),
	}))
	e := try.To1(OpenEnclave(c.enclavePath(), c.EnclaveBackupName, c.EnclaveKey))
	sc := sidecar.New(sidecar.Config{
		URL:            c.SidecarURL,
		RequestTimeout: utils.Settings.Timeout(),
	})
	schemaBase := c.SchemaBaseURL
	if schemaBase == "" {
		schemaBase = c.CloudAgentURL
	}
	a := holder.New(holder.Config{
		Label:           c.Label,
		SchemaBaseURL:   schemaBase,
		Domain:          c.Domain,
		PollInterval:    utils.Settings.PollInterval(),
		PublishTimeout:  utils.Settings.PublishTimeout(),
		ShutdownTimeout: utils.Settings.ShutdownTimeout(),
		SendTimeout:     utils.Settings.Timeout(),
		QueueSize:       c.QueueSize,
	}, holder.Deps{Store: e, Remote: rc, Messaging: sc})

	return &Wallet{Agent: a, Enclave: e}, nil
}

// OpenEnclave opens the sealed box and creates its directory if needed.
func OpenEnclave(path, backupName, key string) (e *enclave.Enclave, err error) {
	defer err2.Handle(&err)

	try.To(os.MkdirAll(filepath.Dir(path), 0o700))
	return enclave.New(enclave.Config{
		Filename:   path,
		BackupName: backupName,
		Key:        key,
	})
}

// Exec runs the daemon until it gets SIGINT or SIGTERM.
func (c *Cmd) Exec(w io.Writer) (r cmds.Result, err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return nil, c.Run(ctx, w)
}

// Run runs the daemon until the ctx is done. The wallet is shut down but its
// state is kept.
func (c *Cmd) Run(ctx context.Context, w io.Writer) (err error) {
	defer err2.Handle(&err, "wallet daemon")

	c.Setup()
	wal := try.To1(c.Open())
	defer func() {
		if cerr := wal.Close(); cerr != nil {
			glog.Errorln("enclave close:", cerr)
		}
	}()

	cron := startBackupTasks(wal.Enclave)
	defer cron.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if c.AutoStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := wal.StartUpAndConnect(ctx); err != nil {
				glog.Errorln("auto start:", err)
			}
		}()
	}

	srv := server.New(wal.Agent, server.Config{
		Port:           c.ServerPort,
		AllowedOrigins: c.AllowedOrigins,
		Version:        utils.Settings.VersionInfo(),
	})
	cmds.Fprintln(w, "findy-wallet control API on port", c.ServerPort)
	serveErr := srv.ListenAndServe(ctx)

	cancel()
	wg.Wait()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), utils.Settings.ShutdownTimeout())
	defer shutCancel()
	if err := wal.Shutdown(shutCtx); err != nil {
		glog.Errorln("wallet shutdown:", err)
	}
	return serveErr
}

func startBackupTasks(e *enclave.Enclave) *gocron.Scheduler {
	cron := gocron.NewScheduler(time.Now().Location())
	if at := utils.Settings.EnclaveBackupTime(); at != "" {
		glog.V(1).Infoln("enclave backup time:", at)
		_, err := cron.Every(1).Day().At(at).Do(e.Backup)
		if err != nil {
			glog.Warningln("enclave backup start error:", err)
		}
	}
	cron.StartAsync()
	return cron
}
