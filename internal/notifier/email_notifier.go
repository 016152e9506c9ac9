package notifier

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/lemawe69/milky-shaky-backend/configs"
)

func (s *Service) SendOrderEmail(recipientEmail string, summary OrderSummary) error {
	cfg := config.LoadEmailConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {

		log.Printf("Failed to load AWS SDK config for email to %s (order %d): %v", recipientEmail, summary.OrderID, err)
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("Order Confirmation — #%d", summary.OrderID)
	if summary.Cancelled {
		subject = fmt.Sprintf("Order Cancelled — #%d", summary.OrderID)
	}

	bodyHTML := buildOrderHTML(summary)
	bodyText := buildOrderText(summary)

	input := &ses.SendEmailInput{
		Source: aws.String(fmt.Sprintf("Milky Shaky <%s>", cfg.SenderEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	_, err = client.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("Failed to send email for order %d to %s: %v", summary.OrderID, recipientEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Order email sent successfully for order %d to %s", summary.OrderID, recipientEmail)
	return nil
}

func buildOrderHTML(summary OrderSummary) string {
	var itemRows strings.Builder
	for _, item := range summary.Items {
		extras := item.Consistency
		if item.Topping != "" {
			extras += " • " + item.Topping
		}
		itemRows.WriteString(fmt.Sprintf(`
            <tr style="border-bottom: 1px solid #e8e8e8;">
                <td style="padding: 8px;">%dx</td>
                <td style="padding: 8px;"><strong>%s</strong><br/><span style="font-size: 13px; color: #666;">%s</span></td>
                <td style="padding: 8px; text-align: right;">R%.2f</td>
            </tr>`, item.Qty, item.Flavour, extras, item.LineTotal))
	}

	header := "Order Confirmed!"
	statusLine := "Your order is confirmed and being prepared."
	totalLabel := "Total"
	if summary.Cancelled {
		header = "Order Cancelled"
		statusLine = fmt.Sprintf("Your order has been cancelled. A refund of R%.2f will be processed within 5-7 business days.", summary.Total)
		totalLabel = "Refund Amount"
	}

	pickup := ""
	if !summary.Cancelled {
		pickup = fmt.Sprintf(`
            <p><strong>Pickup Location:</strong> %s</p>
            <p><strong>Pickup Time:</strong> %s</p>`,
			summary.Restaurant, summary.PickupAt.Format("Monday, 2 January 2006 15:04"))
	}

	return fmt.Sprintf(`
        <html>
        <body style="font-family: sans-serif; color: #333;">
            <h1>🥤 Milky Shaky</h1>
            <h2>%s</h2>
            <p>Hi <strong>%s</strong>,</p>
            <p>Order #%d (ref %s)</p>
            <table style="width: 100%%; border-collapse: collapse;">%s</table>
            <p>Subtotal: R%.2f</p>
            <p>Discount: -R%.2f</p>
            <p>VAT: R%.2f</p>
            <p><strong>%s: R%.2f</strong></p>
            %s
            <p>%s</p>
            <p>Best regards,<br/>Milky Shaky Drinks</p>
        </body>
        </html>`,
		header, summary.CustomerName, summary.OrderID, summary.Reference, itemRows.String(),
		summary.Subtotal, summary.Discount, summary.VAT, totalLabel, summary.Total,
		pickup, statusLine)
}

func buildOrderText(summary OrderSummary) string {
	if summary.Cancelled {
		return fmt.Sprintf(
			"Hi %s,\n\nYour order #%d has been cancelled.\n\nRefund amount: R%.2f\n\n"+
				"The refund will be processed within 5-7 business days.\n\nBest regards,\nMilky Shaky Drinks",
			summary.CustomerName, summary.OrderID, summary.Total)
	}
	return fmt.Sprintf(
		"Hi %s,\n\nThank you for your order! Order #%d has been placed.\n\n"+
			"Subtotal: R%.2f\nDiscount: -R%.2f\nVAT: R%.2f\nTotal: R%.2f\n\n"+
			"Pickup: %s at %s\n\nBest regards,\nMilky Shaky Drinks",
		summary.CustomerName, summary.OrderID,
		summary.Subtotal, summary.Discount, summary.VAT, summary.Total,
		summary.Restaurant, summary.PickupAt.Format("Monday, 2 January 2006 15:04"))
}
