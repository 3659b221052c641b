package service

import (
	"errors"
	"fmt"
	"html"

	"financas/config"
	"financas/logger"

	"gopkg.in/gomail.v2"
)

// ErrEmailDisabled 邮件服务未启用
var ErrEmailDisabled = errors.New("email service is disabled, set email.enabled=true")

// Mailer 注册等流程使用的发信接口
type Mailer interface {
	SendWelcomeEmail(toEmail, name string) error
}

// sender 发送一封已组装好的邮件
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService 基于 SMTP 的邮件服务
type EmailService struct {
	cfg    *config.EmailConfig
	dialer sender
	log    *logger.Logger
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, log *logger.Logger) *EmailService {
	if log == nil {
		log = logger.Discard()
	}
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log.WithComponent(logger.ComponentMail),
	}
}

// Enabled 是否已启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendWelcomeEmail 注册成功后发送欢迎邮件
func (s *EmailService) SendWelcomeEmail(toEmail, name string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	return s.send(toEmail, "Bem-vindo ao Finanças", welcomeBody(name))
}

// SendTestEmail 发送测试邮件，用于确认 SMTP 配置
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	body := `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ E-mail configurado</h2>
    <p>Se você recebeu esta mensagem, o serviço de e-mail está funcionando.</p>
</body>
</html>
`
	return s.send(toEmail, "Finanças: teste de e-mail", body)
}

func (s *EmailService) message(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *EmailService) send(to, subject, body string) error {
	if err := s.dialer.DialAndSend(s.message(to, subject, body)); err != nil {
		s.log.Error("send email failed", logger.FieldError, err, "to", to)
		return fmt.Errorf("send email: %w", err)
	}
	s.log.Info("email sent", "to", to, "subject", subject)
	return nil
}

// welcomeBody 欢迎邮件正文
func welcomeBody(name string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .content { padding: 40px 30px; color: #333; line-height: 1.8; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>💰 Finanças</h1></div>
        <div class="content">
            <p>Olá, <strong>%s</strong>!</p>
            <p>Sua conta foi criada. Registre suas entradas e despesas e acompanhe o saldo do mês no painel.</p>
        </div>
        <div class="footer">
            <p>Este e-mail foi enviado automaticamente, não responda.</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(name))
}
