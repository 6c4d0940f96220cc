// @title           Crypto Wallet Simulator API
// @version         1.0
// @description     Simulated market data and PIN-gated purchase flow

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	marketsvc "main/internal/application/service/market"
	tradingsvc "main/internal/application/service/trading"
	market "main/internal/domain/entity/market"
	trading "main/internal/domain/entity/trading"
	interfaces "main/internal/domain/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	basePath      = "/api/v1"
	sessionCookie = "wallet_session"
	sessionCtxKey = "wallet.session"
	defaultDays   = marketsvc.DefaultSeriesDays
	maxSeriesDays = 365
)

var errLoginRequired = errors.New("login required")

type Handler struct {
	router     *gin.Engine
	market     *marketsvc.Service
	trading    *tradingsvc.Service
	sessions   interfaces.SessionStore
	cache      *redis.Client
	cacheTTL   time.Duration
	sessionTTL time.Duration
	log        *logrus.Logger
}

// NewHandler wires the router. cache may be nil; candle responses are
// then served uncached.
func NewHandler(
	marketService *marketsvc.Service,
	tradingService *tradingsvc.Service,
	sessions interfaces.SessionStore,
	cache *redis.Client,
	cacheTTL time.Duration,
	sessionTTL time.Duration,
	log *logrus.Logger,
) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:     router,
		market:     marketService,
		trading:    tradingService,
		sessions:   sessions,
		cache:      cache,
		cacheTTL:   cacheTTL,
		sessionTTL: sessionTTL,
		log:        log,
	}
	router.Use(h.requestLogger())
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	api := h.router.Group(basePath)
	api.Use(h.sessionMiddleware())

	md := api.Group("/market")
	{
		md.GET("/quotes", h.getQuotes)
		md.GET("/assets/:symbol", h.getAssetQuote)

		candles := md.Group("/candles")
		if h.cache != nil {
			candles.Use(h.cacheMiddleware())
		}
		candles.GET("/:symbol", h.getCandleSeries)
	}

	pin := api.Group("/pin")
	{
		pin.POST("/login", h.login)
		pin.POST("/logout", h.logout)
		pin.POST("/reset", h.resetPin)
	}

	orders := api.Group("/orders")
	orders.Use(h.requireLogin())
	{
		orders.POST("/confirm", h.confirmOrder)
		orders.GET("/pending", h.getPendingOrder)
		orders.POST("/authorize", h.authorizeOrder)
		orders.GET("", h.listOrders)
	}

	api.GET("/wallet", h.requireLogin(), h.getWallet)
}

// Market handlers

// getQuotes returns the current snapshot for all catalog assets
// @Summary      List quotes
// @Tags         market
// @Produce      json
// @Success      200  {array}  market.Quote
// @Router       /market/quotes [get]
func (h *Handler) getQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.market.GetQuotes(c.Request.Context(), h.session(c)))
}

// getAssetQuote returns the snapshot for one asset
// @Summary      Get asset quote
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Asset symbol"
// @Success      200     {object}  market.Quote
// @Failure      404     {object}  map[string]string
// @Router       /market/assets/{symbol} [get]
func (h *Handler) getAssetQuote(c *gin.Context) {
	quote, err := h.market.GetQuote(c.Request.Context(), c.Param("symbol"), h.session(c))
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// getCandleSeries returns a daily candle series
// @Summary      Get candle series
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true   "Asset symbol"
// @Param        days    query     int     false  "Series length in days (default 30)"
// @Success      200     {object}  market.CandleSeries
// @Failure      400     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /market/candles/{symbol} [get]
func (h *Handler) getCandleSeries(c *gin.Context) {
	days := defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed > maxSeriesDays {
			writeError(c, http.StatusBadRequest, marketsvc.ErrInvalidSeriesLength)
			return
		}
		days = parsed
	}

	series, err := h.market.GetCandleSeries(c.Request.Context(), c.Param("symbol"), days)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// PIN handlers

type pinPayload struct {
	Pin string `json:"pin"`
}

type resetPinPayload struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// login authenticates the session against the wallet PIN
// @Summary      Log in
// @Tags         pin
// @Accept       json
// @Produce      json
// @Param        pin  body      pinPayload  true  "Wallet PIN"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /pin/login [post]
func (h *Handler) login(c *gin.Context) {
	var payload pinPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	sess := h.session(c)
	if err := h.trading.Login(sess, payload.Pin); err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

// logout destroys the session, orders included
// @Summary      Log out
// @Tags         pin
// @Success      204  "No Content"
// @Router       /pin/logout [post]
func (h *Handler) logout(c *gin.Context) {
	sess := h.session(c)
	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// resetPin swaps the accepted wallet PIN
// @Summary      Reset PIN
// @Tags         pin
// @Accept       json
// @Param        pins  body  resetPinPayload  true  "Current and new PIN"
// @Success      204   "No Content"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /pin/reset [post]
func (h *Handler) resetPin(c *gin.Context) {
	var payload resetPinPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.trading.ResetPin(payload.Current, payload.New); err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Order handlers

type confirmOrderPayload struct {
	Symbol string `json:"symbol"`
	// Units stays a string so the two-decimal rule applies to what the
	// user typed, not to a parsed float.
	Units       string  `json:"units"`
	MarketPrice float64 `json:"market_price"`
}

// confirmOrder stages a pending order for PIN authorization
// @Summary      Confirm purchase
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      confirmOrderPayload  true  "Purchase details"
// @Success      201    {object}  trading.PendingOrder
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /orders/confirm [post]
func (h *Handler) confirmOrder(c *gin.Context) {
	var payload confirmOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	sess := h.session(c)
	pending, err := h.trading.StartPurchase(sess, payload.Symbol, payload.Units, payload.MarketPrice)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusCreated, pending)
}

// getPendingOrder returns the staged order
// @Summary      Get pending order
// @Tags         orders
// @Produce      json
// @Success      200  {object}  trading.PendingOrder
// @Failure      409  {object}  map[string]string
// @Router       /orders/pending [get]
func (h *Handler) getPendingOrder(c *gin.Context) {
	pending, err := h.trading.PendingOrder(h.session(c))
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// authorizeOrder commits the staged order after a PIN check
// @Summary      Authorize purchase
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        pin  body      pinPayload  true  "Wallet PIN"
// @Success      201  {object}  trading.Order
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/authorize [post]
func (h *Handler) authorizeOrder(c *gin.Context) {
	var payload pinPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	sess := h.session(c)
	order, err := h.trading.AuthorizePurchase(sess, payload.Pin)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	if !h.saveSession(c, sess) {
		return
	}
	c.JSON(http.StatusCreated, order)
}

// listOrders returns the session ledger, most recent first
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Success      200  {array}  trading.Order
// @Router       /orders [get]
func (h *Handler) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.trading.ListOrders(h.session(c)))
}

// Wallet handler

type walletRow struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Icon           string  `json:"icon"`
	Quantity       float64 `json:"quantity"`
	OverallPrice   float64 `json:"overall_price"`
	EstimatedValue float64 `json:"estimated_value"`
}

// getWallet returns current holdings with estimated values
// @Summary      Get wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {array}  walletRow
// @Router       /wallet [get]
func (h *Handler) getWallet(c *gin.Context) {
	quotes := h.market.GetQuotes(c.Request.Context(), h.session(c))
	rows := make([]walletRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, walletRow{
			Symbol:         q.Symbol,
			Name:           q.Name,
			Icon:           q.Icon,
			Quantity:       q.Quantity,
			OverallPrice:   q.OverallPrice,
			EstimatedValue: q.EstimatedValue,
		})
	}
	c.JSON(http.StatusOK, rows)
}

// Middleware

// sessionMiddleware resolves the wallet session from its cookie,
// creating a fresh one when the cookie is absent, invalid or expired.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *trading.Session
		if raw, err := c.Cookie(sessionCookie); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				if stored, err := h.sessions.Get(ctx, id); err == nil {
					sess = stored
				}
			}
		}

		if sess == nil {
			sess = trading.NewSession()
			if err := h.sessions.Save(ctx, sess); err != nil {
				writeError(c, http.StatusInternalServerError, err)
				c.Abort()
				return
			}
			c.SetCookie(sessionCookie, sess.ID.String(), int(h.sessionTTL.Seconds()), "/", "", false, true)
		}

		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

func (h *Handler) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.session(c).Authenticated {
			writeError(c, http.StatusUnauthorized, errLoginRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"ip":      c.ClientIP(),
			"latency": time.Since(start).String(),
		}).Info("http request")
	}
}

// cacheMiddleware caches candle GET responses in Redis. Candle series
// are session independent, so the cache key only needs the route and
// query.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := "cache:candles:" + c.Request.URL.Path + "?" + c.Request.URL.RawQuery
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

// Helpers

func (h *Handler) session(c *gin.Context) *trading.Session {
	return c.MustGet(sessionCtxKey).(*trading.Session)
}

// saveSession persists session mutations; on failure it writes the
// error response and reports false.
func (h *Handler) saveSession(c *gin.Context, sess *trading.Session) bool {
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, market.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, tradingsvc.ErrNoPendingOrder):
		return http.StatusConflict
	case errors.Is(err, tradingsvc.ErrPinMismatch):
		return http.StatusUnauthorized
	case errors.Is(err, tradingsvc.ErrPinFormat),
		errors.Is(err, tradingsvc.ErrUnitsFormat),
		errors.Is(err, tradingsvc.ErrMinUnits),
		errors.Is(err, tradingsvc.ErrUnitsPrecision),
		errors.Is(err, marketsvc.ErrInvalidSeriesLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
