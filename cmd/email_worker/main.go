package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/coursehub/user-service/config"
	"github.com/coursehub/user-service/pkg/helpers"
	"github.com/coursehub/user-service/pkg/mailer"
	mailtpl "github.com/coursehub/user-service/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled")
		return
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer consumer.Close()

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		log.Println("shutting down email worker")
		cancel()
	}()

	log.Printf("email worker consuming from %q", cfg.RabbitMQEmailQueue)
	err = consumer.Consume(ctx, func(body []byte) error {
		var job mailer.EmailJob
		if err := json.Unmarshal(body, &job); err != nil {
			// Unparseable jobs would be redelivered forever; drop them.
			log.Printf("bad message: %v", err)
			return nil
		}

		html := job.HTML
		if job.Template != "" {
			rendered, rerr := mailtpl.Render(job.Template, dataToEmail(job.Data))
			if rerr != nil {
				log.Printf("render %s failed: %v", job.Template, rerr)
				return nil
			}
			html = rendered
		}

		c, sendCancel := context.WithTimeout(ctx, 15*time.Second)
		defer sendCancel()
		if err := mg.Send(c, job.To, job.Subject, job.Text, html); err != nil {
			log.Printf("send to %s failed: %v", job.To, err)
			return err
		}
		log.Printf("sent %q to %s", job.Subject, job.To)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		log.Fatalf("consume: %v", err)
	}
}

func dataToEmail(data map[string]any) mailtpl.EmailData {
	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}
	return mailtpl.EmailData{
		Name:      str("Name"),
		Email:     str("Email"),
		AppName:   str("AppName"),
		VerifyURL: str("VerifyURL"),
	}
}
