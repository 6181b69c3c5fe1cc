package email

// GlobalEmailService nil olabilir; RESEND_API_KEY verilmediyse
// e-posta gönderimi sessizce atlanır
var GlobalEmailService *EmailService

func InitEmailService(apiKey string) error {
	service, err := NewEmailService(apiKey)
	if err != nil {
		return err
	}
	GlobalEmailService = service
	return nil
}
