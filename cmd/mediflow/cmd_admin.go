package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sgzs6721/mediflow-front/domain/permission"
	"github.com/sgzs6721/mediflow-front/domain/registration"
	"github.com/sgzs6721/mediflow-front/router"
	"github.com/spf13/cobra"
)

const (
	registrationRoute = "/admin/registrations"
	permissionRoute   = "/admin/permissions"
)

func (a *app) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "注册审核和字段权限",
	}
	cmd.AddCommand(
		a.requestListCmd(),
		a.approveCmd(),
		a.rejectCmd(),
		a.permissionListCmd(),
		a.permissionSetCmd(),
		a.permissionClearCmd(),
		a.permissionCheckCmd(),
	)
	return cmd
}

func (a *app) requestListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "注册申请列表",
		Args:  cobra.NoArgs,
		RunE: a.guard(registrationRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.registrations.List(cmd.Context(), registration.Status(strings.ToUpper(status)))
			if err != nil {
				return err
			}
			return a.printRegistrations(list)
		}),
	}
	cmd.Flags().StringVar(&status, "status", string(registration.StatusPending), "PENDING|APPROVED|REJECTED|ALL")
	return cmd
}

func (a *app) approveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <requestId>",
		Short: "通过注册申请",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(registrationRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadRegistration(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.registrations.Approve(cmd.Context(), m); err != nil {
				return err
			}
			return a.printRegistrations([]*registration.RegistrationEntity{m})
		}),
	}
}

func (a *app) rejectCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "reject <requestId>",
		Short: "拒绝注册申请",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(registrationRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadRegistration(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.registrations.Reject(cmd.Context(), m, reason); err != nil {
				return err
			}
			return a.printRegistrations([]*registration.RegistrationEntity{m})
		}),
	}
	cmd.Flags().StringVar(&reason, "reason", "", "拒绝原因")
	return cmd
}

// permissionListCmd 按角色、数据分类分组展示
func (a *app) permissionListCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "字段权限配置",
		Args:  cobra.NoArgs,
		RunE: a.guard(permissionRoute, func(cmd *cobra.Command, args []string) error {
			var list []*permission.Permission
			var err error
			if role != "" {
				list, err = a.permissions.ByRole(cmd.Context(), router.Role(strings.ToUpper(role)))
			} else {
				list, err = a.permissions.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			groups := permission.Group(list)
			rows := make([][]string, 0, len(list))
			for _, r := range router.Roles() {
				categories := groups[r]
				names := make([]string, 0, len(categories))
				for name := range categories {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					for _, p := range categories[name] {
						rows = append(rows, []string{
							idString(p.Id), r.DisplayName(), name, p.DataField, p.FieldLabel, p.PermissionType.DisplayName(),
						})
					}
				}
			}
			return a.table([]string{"ID", "角色", "数据分类", "字段", "名称", "权限"}, rows)
		}),
	}
	cmd.Flags().StringVar(&role, "role", "", "只看该角色")
	return cmd
}

func (a *app) permissionSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-permission <permissionId> <EDITABLE|READONLY|NONE>",
		Short: "修改字段权限",
		Args:  cobra.ExactArgs(2),
		RunE: a.guard(permissionRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			p, err := a.permissions.Update(cmd.Context(), id, permission.Type(strings.ToUpper(args[1])))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s.%s: %s\n", p.RoleName.DisplayName(), p.DataCategory, p.DataField, p.PermissionType.DisplayName())
			return nil
		}),
	}
}

func (a *app) permissionClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "清除权限缓存",
		Args:  cobra.NoArgs,
		RunE: a.guard(permissionRoute, func(cmd *cobra.Command, args []string) error {
			return a.permissions.ClearCache(cmd.Context())
		}),
	}
}

func (a *app) permissionCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-permission <role> <field>",
		Short: "查询角色对字段的权限",
		Args:  cobra.ExactArgs(2),
		RunE: a.guard(permissionRoute, func(cmd *cobra.Command, args []string) error {
			role, err := router.ParseRole(args[0])
			if err != nil {
				return err
			}
			typ, err := a.permissions.Check(cmd.Context(), role, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s: %s\n", role.DisplayName(), args[1], typ.DisplayName())
			return nil
		}),
	}
}

// loadRegistration 后端没有单条查询,从全部申请中查找
func (a *app) loadRegistration(cmd *cobra.Command, arg string) (*registration.RegistrationEntity, error) {
	id, err := parseId(arg)
	if err != nil {
		return nil, err
	}
	list, err := a.registrations.List(cmd.Context(), registration.StatusAll)
	if err != nil {
		return nil, err
	}
	for _, m := range list {
		if m.Id == id {
			return m, nil
		}
	}
	return nil, fmt.Errorf("注册申请[%d]不存在", id)
}

func (a *app) printRegistrations(list []*registration.RegistrationEntity) error {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{
			idString(m.Id), m.Username, m.RealName, m.Phone, m.AppliedRole.DisplayName(),
			m.Status.DisplayName(), m.RejectReason, m.CreatedAt.String(),
		})
	}
	return a.table([]string{"ID", "用户名", "姓名", "手机号", "申请角色", "状态", "拒绝原因", "申请时间"}, rows)
}
