package recorder

import (
	"context"
	"time"

	marketsvc "main/internal/application/service/market"
	market "main/internal/domain/entity/market"
	interfaces "main/internal/domain/interfaces"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Recorder persists each day's generated close into the historical
// price store, so charts and 24h changes gradually shift from
// synthetic to stored data. The request path never writes here.
type Recorder struct {
	cron    *cron.Cron
	market  *marketsvc.Service
	history interfaces.HistoryRepository
	log     *logrus.Logger
}

func New(market *marketsvc.Service, history interfaces.HistoryRepository, log *logrus.Logger) *Recorder {
	return &Recorder{
		cron:    cron.New(),
		market:  market,
		history: history,
		log:     log,
	}
}

// Start records today's candles immediately, then every day shortly
// after midnight.
func (r *Recorder) Start() error {
	if _, err := r.cron.AddFunc("5 0 * * *", r.recordDailyCloses); err != nil {
		return err
	}
	r.cron.Start()
	go r.recordDailyCloses()
	return nil
}

func (r *Recorder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Recorder) recordDailyCloses() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	date := time.Now().Format("2006-01-02")
	for _, asset := range r.market.Assets() {
		series := r.market.GenerateSeries(asset, marketsvc.DefaultSeriesDays)
		today := series.Candles[len(series.Candles)-1]

		err := r.history.Upsert(ctx, market.HistoricalPrice{
			Symbol: asset.Symbol,
			Date:   date,
			Open:   today.Open,
			High:   today.High,
			Low:    today.Low,
			Close:  today.Close,
		})
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"symbol": asset.Symbol,
				"date":   date,
			}).WithError(err).Error("record daily close")
			continue
		}
		r.log.WithFields(logrus.Fields{
			"symbol": asset.Symbol,
			"date":   date,
			"close":  today.Close,
		}).Info("recorded daily close")
	}
}
