package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"examprep/internal/logger"
	"examprep/internal/metrics"
	"examprep/internal/user"

	"github.com/redis/go-redis/v9"
)

const (
	QueueKey  = "notify:emails"
	FailedKey = "notify:emails:failed"

	maxAttempts = 3
)

type Kind string

const (
	KindPurchaseReceipt Kind = "purchase_receipt"
	KindExpiryNotice    Kind = "expiry_notice"
	KindTest            Kind = "test"
)

type Job struct {
	Kind    Kind      `json:"kind"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type failedJob struct {
	Job   Job       `json:"job"`
	Error string    `json:"error"`
	Time  time.Time `json:"time"`
}

// Recipients resolves a user id to an address. user.Service satisfies it.
type Recipients interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Service struct {
	rdb        redis.Cmdable
	users      Recipients
	sender     Sender
	popTimeout time.Duration
	retryDelay time.Duration
}

func New(rdb redis.Cmdable, users Recipients, sender Sender) *Service {
	return &Service{
		rdb:        rdb,
		users:      users,
		sender:     sender,
		popTimeout: 2 * time.Second,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Enqueue(ctx context.Context, job Job) error {
	if job.Created.IsZero() {
		job.Created = time.Now()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.rdb.LPush(ctx, QueueKey, data).Err(); err != nil {
		logger.Error("failed to queue email", "to", job.To, "kind", job.Kind, "error", err)
		return fmt.Errorf("queue email: %w", err)
	}

	metrics.RecordEmail(string(job.Kind), "queued")
	logger.Info("email queued", "kind", job.Kind, "to", job.To)
	return nil
}

func (s *Service) SendTest(ctx context.Context, to string) error {
	return s.Enqueue(ctx, Job{
		Kind:    KindTest,
		To:      to,
		Name:    "Test User",
		Subject: "Test email from ExamPrep",
		Body:    "Email delivery is working.",
	})
}

func (s *Service) SendPurchaseReceipt(ctx context.Context, userID int, planTitle string, amount int64, expiresAt time.Time) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve recipient %d: %w", userID, err)
	}

	body := fmt.Sprintf(`Hi %s,

Thanks for your purchase!

Exam plan: %s
Amount paid: %s
Access valid until: %s

All notes and test series in this plan are now unlocked.

- ExamPrep Team`, u.Name, planTitle, FormatAmount(amount), expiresAt.Format("Jan 2, 2006"))

	return s.Enqueue(ctx, Job{
		Kind:    KindPurchaseReceipt,
		To:      u.Email,
		Name:    u.Name,
		Subject: "Purchase confirmed - " + planTitle,
		Body:    body,
	})
}

func (s *Service) SendExpiryNotice(ctx context.Context, userID int, planTitle string, expiredAt time.Time) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve recipient %d: %w", userID, err)
	}

	body := fmt.Sprintf(`Hi %s,

Your access to %s ended on %s.

Renew the plan any time to continue where you left off.

- ExamPrep Team`, u.Name, planTitle, expiredAt.Format("Jan 2, 2006"))

	return s.Enqueue(ctx, Job{
		Kind:    KindExpiryNotice,
		To:      u.Email,
		Name:    u.Name,
		Subject: "Your access to " + planTitle + " has expired",
		Body:    body,
	})
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext handles at most one job and reports whether one was popped.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.rdb.BRPop(ctx, s.popTimeout, QueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Warn("email queue pop failed", "error", err)
			sleep(ctx, s.popTimeout)
		}
		return false
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("dropping undecodable email job", "error", err)
		return true
	}

	job.Tries++
	logger.Debug("sending email", "to", job.To, "kind", job.Kind, "attempt", job.Tries)

	if err := s.sender.Send(job); err != nil {
		logger.Error("email send failed", "to", job.To, "kind", job.Kind, "attempt", job.Tries, "error", err)

		if job.Tries < maxAttempts {
			metrics.RecordEmail(string(job.Kind), "retry")
			sleep(ctx, s.retryDelay)
			data, _ := json.Marshal(job)
			if err := s.rdb.LPush(context.WithoutCancel(ctx), QueueKey, data).Err(); err != nil {
				logger.Error("email requeue failed", "to", job.To, "error", err)
			}
		} else {
			metrics.RecordEmail(string(job.Kind), "failed")
			s.saveFailed(ctx, job, err)
		}
		return true
	}

	metrics.RecordEmail(string(job.Kind), "sent")
	logger.Info("email sent", "to", job.To, "kind", job.Kind)
	return true
}

func (s *Service) saveFailed(ctx context.Context, job Job, sendErr error) {
	data, _ := json.Marshal(failedJob{Job: job, Error: sendErr.Error(), Time: time.Now()})
	if err := s.rdb.LPush(context.WithoutCancel(ctx), FailedKey, data).Err(); err != nil {
		logger.Error("failed to park email", "to", job.To, "error", err)
		return
	}
	logger.Error("email moved to failed queue", "to", job.To, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) (int64, error) {
	n, err := s.rdb.LLen(ctx, QueueKey).Result()
	if err != nil {
		return 0, err
	}
	metrics.SetEmailQueueLength(n)
	return n, nil
}

// FormatAmount renders paise as rupees.
func FormatAmount(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%s₹%d.%02d", sign, paise/100, paise%100)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
