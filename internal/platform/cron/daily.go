package cron

import (
	"context"
	"time"
)

// Daily ejecuta fn una vez al día, justo después de la medianoche local del
// server, hasta que el contexto se cancele. Reemplaza a un cron del sistema
// para deploys donde no hay crontab a mano; la función que se ejecuta debe
// ser idempotente porque ante un reinicio puede dispararse de nuevo.
//
// Bloquea: lanzalo en una goroutine desde main.
func Daily(ctx context.Context, fn func(context.Context)) {
	for {
		timer := time.NewTimer(untilNextMidnight(time.Now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			fn(ctx)
		}
	}
}

func untilNextMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	// un margen chico para no disparar justo en el borde del día
	return next.Sub(now) + time.Second
}
