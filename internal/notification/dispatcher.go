// Package notification delivers threshold alert emails. Dispatch is best
// effort and runs off the pipeline's critical path: a mail outage must never
// fail a batch or block the next one.
package notification

import (
	"context"
	"fmt"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	obsmetrics "github.com/claytondb/salestaxjar-sub000/internal/observability/metrics"
	"github.com/claytondb/salestaxjar-sub000/internal/providers/email"
	userdomain "github.com/claytondb/salestaxjar-sub000/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Dispatcher interface {
	// Dispatch sends one email per alert to the owning user, honoring the
	// user's notification preference. Failures are logged and counted, never
	// returned: alert rows already exist and dispatch is retried on no path.
	Dispatch(ctx context.Context, userID snowflake.ID, alerts []alertdomain.Alert)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Config    config.Config
	UserRepo  userdomain.Repository
	AlertRepo alertdomain.Repository
	Provider  email.Provider
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type dispatcher struct {
	log       *zap.Logger
	cfg       config.Config
	userRepo  userdomain.Repository
	alertRepo alertdomain.Repository
	provider  email.Provider
	metrics   *obsmetrics.Metrics
}

func NewDispatcher(p Params) Dispatcher {
	return &dispatcher{
		log:       p.Log.Named("notification"),
		cfg:       p.Config,
		userRepo:  p.UserRepo,
		alertRepo: p.AlertRepo,
		provider:  p.Provider,
		metrics:   p.Metrics,
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, userID snowflake.ID, alerts []alertdomain.Alert) {
	if len(alerts) == 0 || !d.cfg.NotificationsOn {
		return
	}

	user, err := d.userRepo.FindByID(ctx, userID)
	if err != nil {
		d.log.Warn("skip notification, user lookup failed",
			zap.Int64("user_id", int64(userID)), zap.Error(err))
		return
	}
	if !user.NotifyThresholdAlerts {
		d.log.Debug("notifications disabled for user", zap.Int64("user_id", int64(userID)))
		return
	}

	for _, alert := range alerts {
		d.sendOne(ctx, user, alert)
	}
}

func (d *dispatcher) sendOne(ctx context.Context, user *userdomain.User, alert alertdomain.Alert) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.NotifyTimeout)
	defer cancel()

	subject := fmt.Sprintf("Sales tax nexus alert: %s (%s)", alert.StateCode, alert.Level)
	body := renderBody(user, alert)

	if err := d.provider.Send(ctx, []string{user.Email}, subject, body); err != nil {
		if d.metrics != nil {
			d.metrics.NotificationsFailed.Inc()
		}
		d.log.Warn("alert email failed",
			zap.Int64("user_id", int64(user.ID)),
			zap.String("state_code", alert.StateCode),
			zap.String("level", string(alert.Level)),
			zap.Error(err))
		return
	}

	if d.metrics != nil {
		d.metrics.NotificationsSent.Inc()
	}
	if err := d.alertRepo.MarkEmailSent(ctx, alert.ID); err != nil {
		d.log.Warn("mark email_sent failed",
			zap.Int64("alert_id", int64(alert.ID)), zap.Error(err))
	}
}

func renderBody(user *userdomain.User, alert alertdomain.Alert) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>%s</p>
<p>Current sales: $%.2f &middot; transactions: %d &middot; %.0f%% of threshold.</p>
<p>Review the alert in your dashboard for registration guidance.</p>
</body></html>`,
		user.Name,
		alert.Message,
		float64(alert.SalesAmountCents)/100,
		alert.TxCount,
		alert.Percent,
	)
}
