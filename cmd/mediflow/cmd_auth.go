package main

import (
	"fmt"

	"github.com/sgzs6721/mediflow-front/db"
	"github.com/sgzs6721/mediflow-front/domain/auth"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	form := &auth.LoginForm{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "登录并进入角色首页",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if form.Username == "" {
				if form.Username, err = a.prompt("用户名"); err != nil {
					return err
				}
			}
			if form.Password == "" {
				if form.Password, err = a.prompt("密码"); err != nil {
					return err
				}
			}
			home, err := a.auth.Login(cmd.Context(), form)
			if err != nil {
				return err
			}
			user := a.session.CurrentUser()
			fmt.Fprintf(a.out, "%s(%s) 首页: %s\n", user.RealName, user.Role.DisplayName(), home)
			return a.printNav(user.Role)
		},
	}
	cmd.Flags().StringVarP(&form.Username, "username", "u", "", "用户名")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "密码")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "退出登录",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.auth.Logout(cmd.Context())
		},
	}
}

// whoamiCmd 向后端重新校验会话
func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "查看当前登录用户",
		Args:  cobra.NoArgs,
		RunE: a.guard(router.RootRoute, func(cmd *cobra.Command, args []string) error {
			if err := a.auth.Revalidate(cmd.Context()); err != nil {
				return err
			}
			user := a.session.CurrentUser()
			if user == nil {
				return fmt.Errorf("会话已失效: mediflow login")
			}
			expires := "-"
			if at, ok := a.session.TokenExpiresAt(); ok {
				lt := db.LocalTime(at)
				expires = lt.String()
			}
			return a.fields(
				"用户名", user.Username,
				"姓名", user.RealName,
				"角色", user.Role.DisplayName(),
				"首页", router.HomeRoute(user.Role),
				"登录有效期至", expires,
			)
		}),
	}
}

// routeCmd 判断当前用户能否访问路由
func (a *app) routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <path>",
		Short: "检查路由访问权限",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := router.Authorize(a.session.Role(), args[0])
			line := d.Outcome.String()
			if d.Target != "" {
				line += " -> " + d.Target
			}
			if d.Reason != "" {
				line += " (" + d.Reason + ")"
			}
			fmt.Fprintln(a.out, line)
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	form := &auth.RegisterForm{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "提交注册申请",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.ConfirmPassword == "" {
				form.ConfirmPassword = form.Password
			}
			return a.auth.Register(cmd.Context(), form)
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Username, "username", "", "用户名(4-20位字母、数字或下划线)")
	f.StringVar(&form.Password, "password", "", "密码(至少8位,包含大小写字母和数字)")
	f.StringVar(&form.ConfirmPassword, "confirm-password", "", "确认密码(默认同密码)")
	f.StringVar(&form.RealName, "real-name", "", "真实姓名")
	f.StringVar(&form.Phone, "phone", "", "手机号")
	f.StringVar(&form.AppliedRole, "role", "", "申请角色 BUSINESS|BUSINESS_ADMIN|DOCTOR|NURSE")
	f.StringVar(&form.Reason, "reason", "", "申请理由")
	return cmd
}

func (a *app) printNav(role router.Role) error {
	items := router.NavItems(role)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Label, item.Path})
	}
	return a.table([]string{"菜单", "路由"}, rows)
}
