package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"wordquest/internal/engine"
	"wordquest/internal/models"
)

// EmailService sends result summary emails to parents via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail
// creates a disabled service that skips all sends.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendResultSummary emails a parent one session's outcome
func (s *EmailService) SendResultSummary(ctx context.Context, toEmail, playerName string, gameType models.GameType, result engine.Result) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): result summary to %s", toEmail)
		return nil
	}
	if s.debug {
		log.Printf("[DEBUG] SendResultSummary: to=%s player=%s game=%s score=%d", toEmail, playerName, gameType, result.Score)
	}

	subject := fmt.Sprintf("%s finished a %s game", playerName, gameType)
	body := fmt.Sprintf(
		"%s just finished a round of %s.\n\n"+
			"Points earned: %d\n"+
			"Wrong attempts: %d\n"+
			"Time played: %d seconds\n"+
			"Outcome: %s\n",
		playerName, gameType,
		result.Score,
		result.WrongAttempts,
		result.ElapsedSeconds,
		result.EndReason,
	)

	return s.send(ctx, toEmail, subject, body)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: aws.String(subject),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data: aws.String(body),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug {
		log.Printf("[DEBUG] Email sent to %s: %s", toEmail, subject)
	}
	return nil
}
