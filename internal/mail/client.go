// Package mail SMTP 邮件通知
package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/wint11/SmartRead-sub001/config"
)

// Message 邮件消息
type Message struct {
	From        string   // 发件人显示名称，如 "SmartRead <noreply@example.com>"
	To          []string // 收件人列表
	Subject     string   // 邮件主题
	Body        string   // 邮件正文（纯文本或 HTML）
	ContentType string   // 内容类型，默认 "text/plain"
}

// Client 邮件客户端
type Client struct {
	conf config.MailConfig
}

// NewClient 创建邮件客户端；未配置 SMTP 服务器时返回 nil（调用方需判空降级）
func NewClient(conf config.MailConfig) *Client {
	if conf.Host == "" {
		return nil
	}
	if conf.Port == 0 {
		conf.Port = 587
	}
	return &Client{conf: conf}
}

// Send 发送邮件
func (c *Client) Send(msg *Message) error {
	if msg.From == "" {
		msg.From = c.conf.From
	}
	if msg.From == "" {
		return fmt.Errorf("发件人不能为空")
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("收件人不能为空")
	}
	if msg.Subject == "" {
		return fmt.Errorf("邮件主题不能为空")
	}

	// 设置默认内容类型
	if msg.ContentType == "" {
		msg.ContentType = "text/plain; charset=UTF-8"
	}

	// 构建邮件内容
	headers := make(map[string]string)
	headers["From"] = msg.From
	headers["To"] = strings.Join(msg.To, ", ")
	headers["Subject"] = msg.Subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = msg.ContentType

	// 组装邮件
	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + msg.Body

	auth := smtp.PlainAuth("", c.conf.Username, c.conf.Password, c.conf.Host)
	addr := fmt.Sprintf("%s:%d", c.conf.Host, c.conf.Port)

	// 根据配置选择是否使用 TLS
	if c.conf.UseTLS || c.conf.Port == 587 {
		return c.sendWithTLS(addr, auth, msg.From, msg.To, []byte(message))
	}

	return smtp.SendMail(addr, auth, msg.From, msg.To, []byte(message))
}

// sendWithTLS 使用 STARTTLS 发送邮件
func (c *Client) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("连接 SMTP 服务器失败: %w", err)
	}
	defer client.Close()

	if err = client.StartTLS(&tls.Config{ServerName: c.conf.Host}); err != nil {
		return fmt.Errorf("启动 TLS 失败: %w", err)
	}

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP 认证失败: %w", err)
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}

	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return fmt.Errorf("设置收件人失败: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("准备发送邮件内容失败: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("写入邮件内容失败: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("关闭邮件内容写入失败: %w", err)
	}

	return client.Quit()
}
