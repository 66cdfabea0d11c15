package mail

import "fmt"

// NotifyReviewResult 审核结果通知作者
// 实现 review.Notifier；发送失败由调用方记录日志，不影响主流程
func (c *Client) NotifyReviewResult(toEmail, title, action, feedback string) error {
	if c == nil {
		return nil
	}

	var subject, body string
	if action == "APPROVE" {
		subject = fmt.Sprintf("《%s》审核通过", title)
		body = fmt.Sprintf("你提交的《%s》已通过审核并发布。", title)
	} else {
		subject = fmt.Sprintf("《%s》审核未通过", title)
		body = fmt.Sprintf("你提交的《%s》未通过审核。", title)
		if feedback != "" {
			body += "\n\n审核意见：" + feedback
		}
	}

	return c.Send(&Message{
		To:      []string{toEmail},
		Subject: subject,
		Body:    body,
	})
}
