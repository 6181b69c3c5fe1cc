// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type WelcomeEmailData struct {
	Username string
}

type SubscriptionEmailData struct {
	Username     string
	PlanName     string
	PixelsGrant  int
	IsPlanChange bool
}

type SubscriptionCancelledData struct {
	Username  string
	PlanName  string
	ExpiresAt time.Time
}

type PixelsGrantedData struct {
	Username string
	Pixels   int
	Source   string
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "Pixelwall <noreply@pixelwall.app>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	log.Printf("Resend API response: Status: %d, Body: %s", resp.StatusCode, string(respBody))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// Email sending methods
func (s *EmailService) SendWelcomeEmail(email, username string) error {
	data := WelcomeEmailData{
		Username: username,
	}
	return s.sendTemplateEmail(email, "Welcome to Pixelwall! 🎉", "welcome.html", data)
}

func (s *EmailService) SendSubscriptionStartedEmail(email, username, planName string, pixelsGrant int, isPlanChange bool) error {
	data := SubscriptionEmailData{
		Username:     username,
		PlanName:     planName,
		PixelsGrant:  pixelsGrant,
		IsPlanChange: isPlanChange,
	}

	subject := "Welcome to Pixelwall Premium! 🎉"
	if isPlanChange {
		subject = "Your Pixelwall Plan Has Been Changed 🔄"
	}

	return s.sendTemplateEmail(email, subject, "subscription_started.html", data)
}

func (s *EmailService) SendSubscriptionCancelledEmail(email, username, planName string, expiresAt time.Time) error {
	data := SubscriptionCancelledData{
		Username:  username,
		PlanName:  planName,
		ExpiresAt: expiresAt,
	}
	return s.sendTemplateEmail(email, "Your Subscription Has Been Cancelled", "subscription_cancelled.html", data)
}

func (s *EmailService) SendPixelsGrantedEmail(email, username string, pixels int, source string) error {
	data := PixelsGrantedData{
		Username: username,
		Pixels:   pixels,
		Source:   source,
	}
	return s.sendTemplateEmail(email, fmt.Sprintf("%d Pixels Added to Your Account ✨", pixels), "pixels_granted.html", data)
}
