// Package metadata resolves unit identifiers to descriptive metadata
// URIs through an external resolver service. Endpoints are discovered
// via DNS SRV records (_coritemeta._tcp.{domain}) so operators can move
// or load-balance the service without reconfiguring clients.
package metadata

import (
	"fmt"
	"io"
	"math/big"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// srvService is the SRV service label for metadata endpoints.
	srvService = "coritemeta"

	// defaultUpstream is the default recursive resolver for SRV queries.
	defaultUpstream = "8.8.8.8:53"

	// dnsTimeout is the timeout for discovery queries.
	dnsTimeout = 10 * time.Second

	// edns0BufSize is the EDNS0 UDP buffer size.
	edns0BufSize = 4096

	// maxResponseSize caps metadata responses (64 KB); a URI should
	// never come close.
	maxResponseSize = 64 << 10
)

// Resolver fetches metadata URIs from endpoints discovered under
// Domain. The zero value is not usable; set Domain at least.
type Resolver struct {
	// Domain is the DNS zone carrying the _coritemeta._tcp SRV records.
	Domain string

	// Upstream is the recursive resolver address; empty means
	// "8.8.8.8:53".
	Upstream string

	// Client is the HTTP client for endpoint fetches; nil uses a
	// 30-second-timeout default.
	Client *http.Client

	// Endpoints, when non-empty, skips DNS discovery entirely. Used by
	// tests and static deployments.
	Endpoints []string
}

// NewResolver creates a Resolver discovering endpoints under domain.
func NewResolver(domain string) *Resolver {
	return &Resolver{
		Domain: domain,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

// discover queries SRV records for the resolver's domain with the
// DNSSEC OK flag set, returning host:port endpoints sorted by priority
// ascending then weight descending.
func (r *Resolver) discover() ([]string, error) {
	if len(r.Endpoints) > 0 {
		return r.Endpoints, nil
	}
	if r.Domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidParams)
	}
	upstream := r.Upstream
	if upstream == "" {
		upstream = defaultUpstream
	}

	name := dns.Fqdn(fmt.Sprintf("_%s._tcp.%s", srvService, r.Domain))
	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypeSRV)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, true)

	client := &dns.Client{Timeout: dnsTimeout}
	resp, _, err := client.Exchange(msg, upstream)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrDNSLookupFailed, name, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: query %s: rcode %s",
			ErrDNSLookupFailed, name, dns.RcodeToString[resp.Rcode])
	}

	var srvs []*dns.SRV
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			srvs = append(srvs, srv)
		}
	}
	if len(srvs) == 0 {
		return nil, fmt.Errorf("%w: no SRV records at %s", ErrNoEndpoints, name)
	}

	sort.Slice(srvs, func(i, j int) bool {
		if srvs[i].Priority != srvs[j].Priority {
			return srvs[i].Priority < srvs[j].Priority
		}
		return srvs[i].Weight > srvs[j].Weight
	})

	endpoints := make([]string, len(srvs))
	for i, srv := range srvs {
		host := strings.TrimSuffix(srv.Target, ".")
		endpoints[i] = fmt.Sprintf("%s:%d", host, srv.Port)
	}
	return endpoints, nil
}

// Resolve fetches the metadata URI for a unit, trying discovered
// endpoints in order and returning the first success.
//
// Endpoint contract: GET http://{endpoint}/v1/meta/{instance-hex}/{unit}
// answers the URI as a plain-text body.
func (r *Resolver) Resolve(instance [20]byte, unit *big.Int) (string, error) {
	if unit == nil || unit.Sign() < 0 {
		return "", fmt.Errorf("%w: nil or negative unit", ErrInvalidParams)
	}
	endpoints, err := r.discover()
	if err != nil {
		return "", err
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	path := fmt.Sprintf("/v1/meta/%x/%s", instance, unit.String())
	var lastErr error
	for _, ep := range endpoints {
		uri, err := fetchURI(client, "http://"+ep+path)
		if err == nil {
			return uri, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("%w: all endpoints failed: %w", ErrResolveFailed, lastErr)
}

// fetchURI fetches the URI string from a single endpoint.
func fetchURI(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("metadata: %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metadata: %s: HTTP %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("metadata: %s: read body: %w", url, err)
	}
	uri := strings.TrimSpace(string(body))
	if uri == "" {
		return "", fmt.Errorf("metadata: %s: empty response", url)
	}
	return uri, nil
}
