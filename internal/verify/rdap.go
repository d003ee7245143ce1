package verify

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/openrdap/rdap"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/metrics"
)

// Config controls RDAP domain verification.
type Config struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
	// RDAPServers routes TLDs (without the leading dot) to fixed RDAP servers
	// instead of the IANA bootstrap entry.
	RDAPServers  map[string][]string `mapstructure:"rdap_servers"`
	BootstrapURL string              `mapstructure:"bootstrap_url"`
	// RatePerSecond caps RDAP queries across the batch; zero means no cap.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// RDAPVerifier confirms that a looked-up domain is registered. It satisfies
// engine.DomainVerifier.
type RDAPVerifier struct {
	Client    *rdap.Client
	Bootstrap *Bootstrap
	Overrides map[string][]string
	Timeout   time.Duration
	Limiter   *rate.Limiter
	Logger    *logging.Logger
}

// NewRDAPVerifier builds a verifier from cfg.
func NewRDAPVerifier(cfg Config, logger *logging.Logger) *RDAPVerifier {
	v := &RDAPVerifier{
		Client:    &rdap.Client{},
		Bootstrap: &Bootstrap{URL: cfg.BootstrapURL},
		Overrides: make(map[string][]string, len(cfg.RDAPServers)),
		Timeout:   cfg.Timeout,
		Logger:    logger,
	}
	for tld, servers := range cfg.RDAPServers {
		v.Overrides[normalizeTLD(tld)] = servers
	}
	if cfg.RatePerSecond > 0 {
		v.Limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}
	return v
}

// Verify queries RDAP for domain. A registry answer of "object does not exist"
// is not_found; any other failure on every server is error.
func (v *RDAPVerifier) Verify(ctx context.Context, domain string) core.DomainStatus {
	status := v.verify(ctx, domain)
	metrics.RecordDomainVerification(string(status))
	return status
}

func (v *RDAPVerifier) verify(ctx context.Context, domain string) core.DomainStatus {
	domain = strings.ToLower(strings.TrimSpace(domain))
	tld := domainTLD(domain)
	if tld == "" {
		return core.DomainStatusSkipped
	}

	servers, err := v.servers(ctx, tld)
	if err != nil {
		v.warn("RDAP bootstrap failed", domain, err)
		return core.DomainStatusError
	}
	if len(servers) == 0 {
		return core.DomainStatusSkipped
	}

	client := v.Client
	if client == nil {
		client = &rdap.Client{}
	}

	for _, serverBase := range servers {
		serverURL, err := url.Parse(serverBase)
		if err != nil {
			v.warn("Invalid RDAP server URL", domain, err)
			continue
		}
		if v.Limiter != nil {
			if err := v.Limiter.Wait(ctx); err != nil {
				return core.DomainStatusError
			}
		}

		req := rdap.NewDomainRequest(domain).WithServer(serverURL)
		if v.Timeout > 0 {
			req.Timeout = v.Timeout
		}
		req = req.WithContext(ctx)

		resp, err := client.Do(req)
		if err != nil {
			if isNotFound(err) || statusOf(resp) == 404 {
				return core.DomainStatusNotFound
			}
			v.warn("RDAP query failed", domain, err)
			continue
		}
		if _, ok := resp.Object.(*rdap.Domain); ok {
			return core.DomainStatusRegistered
		}
	}
	return core.DomainStatusError
}

func (v *RDAPVerifier) servers(ctx context.Context, tld string) ([]string, error) {
	if override := v.Overrides[tld]; len(override) > 0 {
		return override, nil
	}
	return v.Bootstrap.Servers(ctx, tld)
}

func (v *RDAPVerifier) warn(msg, domain string, err error) {
	if v.Logger == nil {
		return
	}
	v.Logger.Warn(msg, zap.String("domain", domain), zap.Error(err))
}

func domainTLD(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx <= 0 || idx == len(domain)-1 {
		return ""
	}
	return normalizeTLD(domain[idx+1:])
}

func statusOf(resp *rdap.Response) int {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return resp.HTTP[0].Response.StatusCode
}

func isNotFound(err error) bool {
	var clientErr *rdap.ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	return clientErr.Type == rdap.ObjectDoesNotExist
}
