package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	mediflow "github.com/sgzs6721/mediflow-front"
	"github.com/sgzs6721/mediflow-front/config"
	"github.com/sgzs6721/mediflow-front/domain/appointment"
	"github.com/sgzs6721/mediflow-front/domain/auth"
	"github.com/sgzs6721/mediflow-front/domain/customer"
	"github.com/sgzs6721/mediflow-front/domain/medicalOrder"
	"github.com/sgzs6721/mediflow-front/domain/medicalRecord"
	"github.com/sgzs6721/mediflow-front/domain/patient"
	"github.com/sgzs6721/mediflow-front/domain/permission"
	"github.com/sgzs6721/mediflow-front/domain/registration"
	"github.com/sgzs6721/mediflow-front/gateway"
	"github.com/sgzs6721/mediflow-front/logger"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/sgzs6721/mediflow-front/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 各业务客户端
type clients struct {
	auth          *auth.Client
	appointments  *appointment.Client
	customers     *customer.Client
	records       *medicalRecord.Client
	orders        *medicalOrder.Client
	patients      *patient.Client
	registrations *registration.Client
	permissions   *permission.Client
}

type app struct {
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	configFile string
	yes        bool

	// storage 非空时替代配置中的会话存储
	storage session.Storage

	cfg     *config.Config
	logger  *zap.Logger
	session *session.Store
	gw      *gateway.Client
	closers []func() error
	clients
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{in: bufio.NewReader(in), out: out, errOut: errOut, logger: zap.NewNop()}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mediflow",
		Short:         "MediFlow 医疗客户管理命令行客户端",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect(cmd.Context())
		},
	}
	root.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "自动确认所有操作")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "配置文件(默认当前目录.env)")

	root.AddCommand(a.loginCmd(), a.logoutCmd(), a.whoamiCmd(), a.routeCmd(), a.registerCmd())
	root.AddCommand(a.appointmentsCmd(), a.customersCmd(), a.doctorCmd(), a.nurseCmd(), a.adminCmd())
	root.AddCommand(a.mockServerCmd())
	return root
}

// loadConfig 读取.env和环境变量
func (a *app) loadConfig() error {
	if a.cfg != nil {
		return nil
	}
	if a.configFile == "" {
		// .env不存在时只使用环境变量
		_ = godotenv.Load()
	}
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	lg, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "mediflow")
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	a.cfg = cfg
	a.logger = lg
	a.closers = append(a.closers, func() error {
		_ = lg.Sync()
		return nil
	})
	return nil
}

// connect 恢复会话并创建各业务客户端
func (a *app) connect(ctx context.Context) error {
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	storage, err := a.sessionStorage()
	if err != nil {
		return err
	}
	a.session = session.NewStore(storage, session.WithLogger(a.logger))
	if err := a.session.Restore(ctx); err != nil {
		return err
	}

	a.gw = gateway.New(a.cfg.APIBaseURL,
		gateway.WithTimeout(a.cfg.RequestTimeout),
		gateway.WithTokenSource(a.session),
		gateway.WithNotifier(gateway.NotifyFunc(a.notify)),
		gateway.WithLogger(a.logger),
	)
	a.gw.OnAuthExpired(a.session.HandleAuthExpired)
	a.gw.OnAuthExpired(func(context.Context) {
		fmt.Fprintln(a.errOut, "请重新登录: mediflow login")
	})

	confirmer := a.confirmer()
	a.clients = clients{
		auth:          auth.NewClient(a.gw, a.session),
		appointments:  appointment.NewClient(a.gw, appointment.WithConfirmer(confirmer)),
		customers:     customer.NewClient(a.gw, customer.WithConfirmer(confirmer)),
		records:       medicalRecord.NewClient(a.gw),
		orders:        medicalOrder.NewClient(a.gw, medicalOrder.WithConfirmer(confirmer), medicalOrder.WithRoleSource(a.session)),
		patients:      patient.NewClient(a.gw),
		registrations: registration.NewClient(a.gw, registration.WithConfirmer(confirmer)),
		permissions:   permission.NewClient(a.gw),
	}
	return nil
}

func (a *app) sessionStorage() (session.Storage, error) {
	if a.storage != nil {
		return a.storage, nil
	}
	switch a.cfg.SessionStore {
	case config.SessionStoreMemory:
		return session.NewMemoryStorage(), nil
	case config.SessionStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.closers = append(a.closers, rdb.Close)
		return session.NewRedisStorage(rdb, "mediflow:"), nil
	default:
		return session.NewFileStorage(a.cfg.SessionFile), nil
	}
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// guard 命令执行前按路由校验登录和角色,不发起任何请求
func (a *app) guard(route string, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		d := router.Authorize(a.session.Role(), route)
		switch d.Outcome {
		case router.Allow, router.RedirectHome:
			return run(cmd, args)
		case router.RedirectLogin:
			return fmt.Errorf("%s: mediflow login", d.Reason)
		default:
			return errors.New(d.Reason)
		}
	}
}

func (a *app) confirmer() mediflow.Confirmer {
	if a.yes {
		return mediflow.AutoConfirm()
	}
	return mediflow.ConfirmFunc(func(_ context.Context, title, content string) (bool, error) {
		fmt.Fprintf(a.errOut, "%s: %s [y/N] ", title, content)
		answer, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

// prompt 读取一行输入
func (a *app) prompt(label string) (string, error) {
	fmt.Fprintf(a.errOut, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var levelLabels = map[gateway.Level]string{
	gateway.LevelSuccess: "成功",
	gateway.LevelInfo:    "提示",
	gateway.LevelWarning: "警告",
	gateway.LevelError:   "错误",
}

func (a *app) notify(level gateway.Level, message string) {
	fmt.Fprintf(a.errOut, "[%s] %s\n", levelLabels[level], message)
}

// report 输出未经通知的错误
func (a *app) report(err error) {
	var ge *gateway.Error
	switch {
	case errors.As(err, &ge), errors.Is(err, mediflow.ErrInvalidTransition), errors.Is(err, medicalOrder.ErrDoctorOnly):
	case errors.Is(err, mediflow.ErrCancelled):
		fmt.Fprintln(a.errOut, mediflow.ErrCancelled.Error())
	default:
		fmt.Fprintln(a.errOut, "错误:", err)
	}
}
