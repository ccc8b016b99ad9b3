package mockBackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sgzs6721/mediflow-front/router"
	"go.uber.org/zap"
)

// 接口前缀
const BasePath = "/mediflow/api"

type Config struct {
	JWTSecret      string
	TokenTTL       time.Duration
	RateLimitRPS   float64 // <=0 不限流
	RateLimitBurst int
	Seed           bool             // 写入演示数据
	Now            func() time.Time // 测试注入时钟
}

// Server 本地开发和测试用的模拟后端
type Server struct {
	cfg    Config
	store  *Store
	tokens *tokenIssuer
	logger *zap.Logger
	engine *gin.Engine
	now    func() time.Time
}

func New(store *Store, cfg Config, logger *zap.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT密钥不能为空")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		tokens: &tokenIssuer{secret: []byte(cfg.JWTSecret), ttl: cfg.TokenTTL, now: cfg.Now},
		logger: logger,
		now:    cfg.Now,
	}
	if cfg.Seed {
		if err := Seed(store); err != nil {
			return nil, fmt.Errorf("写入演示数据失败: %w", err)
		}
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run 启动服务,ctx取消时优雅退出
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", zap.String("addr", addr), zap.String("base_path", BasePath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog(), rateLimitMiddleware(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst), serialize())
	r.NoRoute(func(c *gin.Context) {
		notFound(c, "请求的资源不存在")
	})

	api := r.Group(BasePath)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", s.login)
			auth.POST("/register", s.register)
			auth.GET("/current-user", s.authMiddleware(), s.currentUser)
			auth.POST("/logout", s.authMiddleware(), s.logout)
		}

		protected := api.Group("/")
		protected.Use(s.authMiddleware())

		business := protected.Group("/business", requireRoles(router.RoleBusiness, router.RoleBusinessAdmin))
		{
			business.GET("/customers", s.listCustomers)
			business.POST("/customers", s.createCustomer)
			business.GET("/customers/:id", s.getCustomer)
			business.PUT("/customers/:id", s.updateCustomer)
			business.DELETE("/customers/:id", s.deleteCustomer)
			business.GET("/customers/:id/360-view", s.customerView)
			business.GET("/customers/:id/follow-ups", s.listFollowUps)
			business.POST("/customers/:id/follow-ups", s.createFollowUp)
			business.GET("/customers/:id/orders", s.listBusinessOrders)
			business.POST("/customers/:id/orders", s.createBusinessOrder)
			business.GET("/customers/:id/appointments", s.listCustomerAppointments)
			business.POST("/orders/:id/confirm-payment", s.confirmPayment)

			business.GET("/appointments", s.listAppointments)
			business.POST("/appointments", s.createAppointment)
			business.GET("/appointments/:id", s.getAppointment)
			business.PUT("/appointments/:id", s.updateAppointment)
			business.DELETE("/appointments/:id", s.cancelAppointment)
			business.POST("/appointments/:id/complete", s.completeAppointment)
		}

		doctor := protected.Group("/doctor", requireRoles(router.RoleDoctor))
		{
			doctor.GET("/queue", s.doctorQueue)
			doctor.GET("/patients", s.doctorPatients)
			doctor.GET("/patients/:id", s.patientDetail)
			doctor.GET("/patients/:id/records", s.patientRecords)
			doctor.GET("/patients/:id/physical-exams", s.listExams)
			doctor.GET("/patients/:id/physical-exams/latest", s.latestExam)
			doctor.POST("/medical-records", s.createRecord)
			doctor.PUT("/medical-records/:id", s.updateRecord)
			doctor.POST("/medical-records/:id/send-order", s.sendOrder)
			doctor.GET("/medical-records/:id/prescriptions", s.listPrescriptions)
			doctor.POST("/prescriptions", s.createPrescription)
			doctor.POST("/physical-exams", s.createExam)
		}

		nurse := protected.Group("/nurse", requireRoles(router.RoleNurse))
		{
			nurse.GET("/waiting-patients", s.waitingPatients)
			nurse.POST("/patients/:id/assign-doctor", s.assignDoctor)
			nurse.GET("/doctors", s.listDoctors)
			nurse.GET("/medical-orders", s.listOrders)
			nurse.GET("/medical-orders/:id", s.getOrder)
			nurse.POST("/medical-orders/:id/execute", s.executeOrder)
			nurse.POST("/medical-orders/:id/complete", s.completeOrder)
			nurse.POST("/medical-orders/:id/abnormal", s.abnormalOrder)
			nurse.GET("/medical-orders/:id/executions", s.listExecutions)
		}

		admin := protected.Group("/admin", requireRoles(router.RoleBusinessAdmin))
		{
			admin.GET("/permissions", s.listPermissions)
			admin.GET("/permissions/role/:role", s.rolePermissions)
			admin.PUT("/permissions/:id", s.updatePermission)
			admin.POST("/permissions/clear-cache", s.clearPermissionCache)
			admin.GET("/permissions/check", s.checkPermission)
			admin.GET("/registration-requests", s.listRegistrations)
			admin.POST("/registration-requests/:id/approve", s.approveRegistration)
			admin.POST("/registration-requests/:id/reject", s.rejectRegistration)
		}
	}
	return r
}

// accessLog 请求日志
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetHeader("X-Request-Id")),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
			s.logger.Warn("mock request", fields...)
			return
		}
		s.logger.Debug("mock request", fields...)
	}
}
