package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// DefaultTwilioAPIBase is the host the Twilio SDK targets.
const DefaultTwilioAPIBase = "https://api.twilio.com"

// TwilioOptions configures a TwilioClient.
type TwilioOptions struct {
	AccountSID string
	AuthToken  string
	APIBase    string // empty or DefaultTwilioAPIBase uses the SDK host as is
	Timeout    time.Duration
	Transport  http.RoundTripper
}

// TwilioClient sends messages through the Twilio Messages API.
type TwilioClient struct {
	rest *twilio.RestClient
}

// NewTwilioClient creates a Twilio messenger.
func NewTwilioClient(opts TwilioOptions) *TwilioClient {
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if base := strings.TrimRight(opts.APIBase, "/"); base != "" && base != DefaultTwilioAPIBase {
		if u, err := url.Parse(base); err == nil && u.Host != "" {
			transport = &hostRewriteTransport{scheme: u.Scheme, host: u.Host, next: transport}
		}
	}

	base := &twilioclient.Client{
		Credentials: twilioclient.NewCredentials(opts.AccountSID, opts.AuthToken),
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}
	base.SetAccountSid(opts.AccountSID)

	return &TwilioClient{
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

// SendMessage posts body from one provider address to another.
func (t *TwilioClient) SendMessage(ctx context.Context, from, to, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("twilio send canceled: %w", err)
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(from)
	params.SetTo(to)
	params.SetBody(body)

	if _, err := t.rest.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}

// hostRewriteTransport points SDK requests at another API host, e.g. a
// regional proxy or a local stub.
type hostRewriteTransport struct {
	scheme string
	host   string
	next   http.RoundTripper
}

func (h *hostRewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = h.scheme
	out.URL.Host = h.host
	out.Host = h.host
	return h.next.RoundTrip(out)
}
