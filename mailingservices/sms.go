package mailingservices

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// SMSClient sends text messages through a Twilio-compatible HTTP gateway.
// Configuration comes from TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and
// TWILIO_FROM_NUMBER; leave them unset to disable SMS delivery.
type SMSClient struct {
	httpClient *http.Client
	accountSID string
	authToken  string
	from       string
	baseURL    string
}

func NewSMSClient() *SMSClient {
	return &SMSClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		accountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		authToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		from:       os.Getenv("TWILIO_FROM_NUMBER"),
		baseURL:    "https://api.twilio.com",
	}
}

func (s *SMSClient) Enabled() bool {
	return s.accountSID != "" && s.authToken != "" && s.from != ""
}

func (s *SMSClient) Send(to, body string) error {
	if !s.Enabled() {
		return fmt.Errorf("sms gateway is not configured")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.accountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
