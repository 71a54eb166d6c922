package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/fantasyf1-service-go/log"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/config"
)

type certs struct {
	ctx      context.Context
	certFile string
	keyFile  string
	log      *log.Logger
	cert     *tls.Certificate
	mu       sync.RWMutex
}

// NewTLSConfigProvider returns nil if no certificate is configured.
// The certificate is reloaded when cert or key file change.
func NewTLSConfigProvider(ctx context.Context) *tls.Config {
	return newTLSConfig(ctx, config.TLSCertFile, config.TLSKeyFile, config.TLSCAFile)
}

func newTLSConfig(ctx context.Context, certFile, keyFile, caFile string) *tls.Config {
	c := &certs{
		ctx:      ctx,
		certFile: certFile,
		keyFile:  keyFile,
		log:      log.GetFromContext(ctx).Named("certs"),
	}
	c.loadCert()
	if c.current() == nil {
		return nil
	}
	ret := &tls.Config{
		GetCertificate: func(chi *tls.ClientHelloInfo) (*tls.Certificate, error) {
			return c.current(), nil
		},
		MinVersion: tls.VersionTLS13,
	}
	if caFile != "" {
		c.log.Info("Loading ca cert", log.String("file", caFile))
		if pool, err := loadCAPool(caFile); err == nil {
			ret.ClientCAs = pool
			ret.ClientAuth = tls.VerifyClientCertIfGiven
		} else {
			c.log.Error("could not load TLS root CA", log.ErrorField(err))
		}
	}
	go c.watchAndReloadCerts()
	return ret
}

func loadCAPool(file string) (*x509.CertPool, error) {
	caCert, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(caCert); !ok {
		return nil, os.ErrInvalid
	}
	return pool, nil
}

func (c *certs) current() *tls.Certificate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cert
}

func (c *certs) watchAndReloadCerts() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.log.Error("could not create fsnotify watcher", log.ErrorField(err))
		return
	}
	defer watcher.Close()
	for _, f := range []string{c.certFile, c.keyFile} {
		if err := watcher.Add(f); err != nil {
			c.log.Error("could not watch file", log.String("file", f), log.ErrorField(err))
		}
	}
	for {
		select {
		case <-c.ctx.Done():
			c.log.Info("context done, stopping cert reload")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				c.log.Info("watcher events channel closed, stopping cert reload")
				return
			}
			c.log.Debug("change detected",
				log.String("file", event.Name), log.Any("event", event))
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) ||
				event.Has(fsnotify.Create) {

				c.log.Info("cert file changed, reloading cert",
					log.String("file", event.Name))
				c.loadCert()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				c.log.Info("watcher errors channel closed, stopping cert reload")
				return
			}
			c.log.Error("watcher error", log.ErrorField(err))
		}
	}
}

// loadCert keeps the previous certificate if the files cannot be loaded
func (c *certs) loadCert() {
	if c.certFile == "" || c.keyFile == "" {
		return
	}
	c.log.Info("Loading cert",
		log.String("key", c.keyFile),
		log.String("cert", c.certFile))
	cert, err := tls.LoadX509KeyPair(c.certFile, c.keyFile)
	if err != nil {
		c.log.Error("could not load TLS key pair", log.ErrorField(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cert = &cert
}
