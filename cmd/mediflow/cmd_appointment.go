package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sgzs6721/mediflow-front/domain/appointment"
	"github.com/spf13/cobra"
)

const appointmentRoute = "/business/appointments"

func (a *app) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "预约管理",
	}
	cmd.AddCommand(
		a.appointmentListCmd(),
		a.appointmentCreateCmd(),
		a.appointmentUpdateCmd(),
		a.appointmentTransitCmd("complete", "完成预约", (*appointment.Client).Complete),
		a.appointmentTransitCmd("cancel", "取消预约", (*appointment.Client).Cancel),
		a.appointmentExportCmd(),
	)
	return cmd
}

func (a *app) appointmentListCmd() *cobra.Command {
	var filter string
	var customerId uint64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "预约列表(today|pending|completed|all)",
		Args:  cobra.NoArgs,
		RunE: a.guard(appointmentRoute, func(cmd *cobra.Command, args []string) error {
			var list []*appointment.AppointmentEntity
			var err error
			if customerId > 0 {
				list, err = a.appointments.ListByCustomer(cmd.Context(), customerId)
			} else {
				f, parseErr := appointment.ParseFilter(filter)
				if parseErr != nil {
					return parseErr
				}
				list, err = a.appointments.List(cmd.Context(), f)
			}
			if err != nil {
				return err
			}
			return a.printAppointments(list)
		}),
	}
	cmd.Flags().StringVar(&filter, "filter", string(appointment.FilterToday), "筛选条件")
	cmd.Flags().Uint64Var(&customerId, "customer", 0, "只看该客户的预约")
	return cmd
}

func (a *app) appointmentCreateCmd() *cobra.Command {
	form := &appointment.CreateAppointment{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "新增预约",
		Args:  cobra.NoArgs,
		RunE: a.guard(appointmentRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.appointments.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printAppointments([]*appointment.AppointmentEntity{m})
		}),
	}
	f := cmd.Flags()
	f.Uint64Var(&form.CustomerId, "customer", 0, "客户ID")
	f.StringVar(&form.Date, "date", "", "预约日期 2006-01-02")
	f.StringVar(&form.Clock, "time", "", "预约时刻 15:04")
	f.StringVar(&form.Purpose, "purpose", "", "预约事项")
	return cmd
}

func (a *app) appointmentUpdateCmd() *cobra.Command {
	form := &appointment.UpdateAppointment{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "修改预约,未指定的字段保持原值",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(appointmentRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadAppointment(cmd, args[0])
			if err != nil {
				return err
			}
			// 未指定的字段保持原值
			at := m.AppointmentTime.ToTime()
			if form.Date == "" {
				form.Date = at.Format(time.DateOnly)
			}
			if form.Clock == "" {
				form.Clock = at.Format("15:04")
			}
			if form.Purpose == "" {
				form.Purpose = m.AppointmentPurpose
			}
			if !cmd.Flags().Changed("notes") {
				form.Notes = m.Notes
			}
			if err := a.appointments.Update(cmd.Context(), m, form); err != nil {
				return err
			}
			return a.printAppointments([]*appointment.AppointmentEntity{m})
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.Date, "date", "", "预约日期 2006-01-02")
	f.StringVar(&form.Clock, "time", "", "预约时刻 15:04")
	f.StringVar(&form.Purpose, "purpose", "", "预约事项")
	f.StringVar(&form.Notes, "notes", "", "备注")
	return cmd
}

// appointmentTransitCmd 完成和取消共用
func (a *app) appointmentTransitCmd(use, short string, action func(*appointment.Client, context.Context, *appointment.AppointmentEntity) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(appointmentRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadAppointment(cmd, args[0])
			if err != nil {
				return err
			}
			return action(a.appointments, cmd.Context(), m)
		}),
	}
}

func (a *app) appointmentExportCmd() *cobra.Command {
	var filter, file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出预约到Excel",
		Args:  cobra.NoArgs,
		RunE: a.guard(appointmentRoute, func(cmd *cobra.Command, args []string) error {
			f, err := appointment.ParseFilter(filter)
			if err != nil {
				return err
			}
			list, err := a.appointments.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := a.appointments.Export(file, list); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "已导出%d条预约到 %s\n", len(list), file)
			return nil
		}),
	}
	cmd.Flags().StringVar(&filter, "filter", string(appointment.FilterAll), "筛选条件")
	cmd.Flags().StringVar(&file, "file", "appointments.xlsx", "导出文件")
	return cmd
}

func (a *app) loadAppointment(cmd *cobra.Command, arg string) (*appointment.AppointmentEntity, error) {
	id, err := parseId(arg)
	if err != nil {
		return nil, err
	}
	return a.appointments.Get(cmd.Context(), id)
}

func (a *app) printAppointments(list []*appointment.AppointmentEntity) error {
	now := time.Now()
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		status := m.AppointmentStatus.DisplayName()
		if m.IsOverdue(now) {
			status += "(已逾期)"
		}
		rows = append(rows, []string{
			idString(m.Id), m.CustomerName, m.AppointmentTime.String(), m.AppointmentPurpose, status,
		})
	}
	return a.table([]string{"ID", "客户", "预约时间", "预约事项", "状态"}, rows)
}
