package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sgzs6721/mediflow-front/domain/medicalOrder"
	"github.com/sgzs6721/mediflow-front/domain/patient"
	"github.com/spf13/cobra"
)

const nurseRoute = "/nurse/workbench"

func (a *app) nurseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nurse",
		Short: "护士工作台",
	}
	cmd.AddCommand(
		a.waitingCmd(),
		a.doctorListCmd(),
		a.assignDoctorCmd(),
		a.pendingOrdersCmd(),
		a.executeOrderCmd(),
		a.orderTransitCmd("complete", "完成医嘱", (*medicalOrder.Client).Complete),
		a.orderTransitCmd("abnormal", "标记医嘱异常", (*medicalOrder.Client).MarkAbnormal),
		a.executionListCmd(),
		a.orderExportCmd(),
	)
	return cmd
}

func (a *app) waitingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "waiting",
		Short: "待分配医生的患者",
		Args:  cobra.NoArgs,
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.patients.Waiting(cmd.Context())
			if err != nil {
				return err
			}
			return a.printCustomers(list)
		}),
	}
}

func (a *app) doctorListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "可分配的医生",
		Args:  cobra.NoArgs,
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.patients.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, d := range list {
				rows = append(rows, []string{idString(d.Id), d.Username, d.RealName})
			}
			return a.table([]string{"ID", "用户名", "姓名"}, rows)
		}),
	}
}

func (a *app) assignDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <patientId> <doctorId>",
		Short: "为患者分配医生",
		Args:  cobra.ExactArgs(2),
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			patientId, err := parseId(args[0])
			if err != nil {
				return err
			}
			doctorId, err := parseId(args[1])
			if err != nil {
				return err
			}
			p, err := a.patients.AssignDoctor(cmd.Context(), patientId, doctorId)
			if err != nil {
				return err
			}
			return a.printCustomers([]*patient.Patient{p})
		}),
	}
}

func (a *app) pendingOrdersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "待执行医嘱",
		Args:  cobra.NoArgs,
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.orders.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			return a.printMedicalOrders(list)
		}),
	}
}

func (a *app) executeOrderCmd() *cobra.Command {
	form := &medicalOrder.CreateExecution{}
	cmd := &cobra.Command{
		Use:   "execute <orderId>",
		Short: "登记医嘱执行记录",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadOrder(cmd, args[0])
			if err != nil {
				return err
			}
			form.ExecutionStatus = strings.ToUpper(form.ExecutionStatus)
			rec, err := a.orders.Execute(cmd.Context(), m, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "执行记录ID: %d 医嘱状态: %s\n", rec.Id, m.OrderStatus.DisplayName())
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.ExecutionContent, "content", "", "执行内容")
	f.StringVar(&form.ExecutionStatus, "status", string(medicalOrder.ExecutionNormal), "NORMAL|ABNORMAL")
	f.StringVar(&form.AbnormalDescription, "abnormal", "", "异常描述(执行异常时必填)")
	f.StringVar(&form.PatientReaction, "reaction", "", "患者反应")
	return cmd
}

// orderTransitCmd 完成和标记异常共用
func (a *app) orderTransitCmd(use, short string, action func(*medicalOrder.Client, context.Context, *medicalOrder.MedicalOrderEntity) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <orderId>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			m, err := a.loadOrder(cmd, args[0])
			if err != nil {
				return err
			}
			if err := action(a.orders, cmd.Context(), m); err != nil {
				return err
			}
			return a.printMedicalOrders([]*medicalOrder.MedicalOrderEntity{m})
		}),
	}
}

func (a *app) executionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "executions <orderId>",
		Short: "医嘱执行记录",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			list, err := a.orders.ListExecutions(cmd.Context(), id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, r := range list {
				rows = append(rows, []string{
					idString(r.Id), r.ExecutedAt.String(), r.ExecutionContent, string(r.ExecutionStatus), r.AbnormalDescription, r.PatientReaction,
				})
			}
			return a.table([]string{"ID", "执行时间", "内容", "结果", "异常描述", "患者反应"}, rows)
		}),
	}
}

func (a *app) orderExportCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "导出待执行医嘱到Excel",
		Args:  cobra.NoArgs,
		RunE: a.guard(nurseRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.orders.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.orders.Export(file, list); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "已导出%d条医嘱到 %s\n", len(list), file)
			return nil
		}),
	}
	cmd.Flags().StringVar(&file, "file", "medical-orders.xlsx", "导出文件")
	return cmd
}

func (a *app) loadOrder(cmd *cobra.Command, arg string) (*medicalOrder.MedicalOrderEntity, error) {
	id, err := parseId(arg)
	if err != nil {
		return nil, err
	}
	return a.orders.Get(cmd.Context(), id)
}

func (a *app) printMedicalOrders(list []*medicalOrder.MedicalOrderEntity) error {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{
			idString(m.Id), m.CustomerName, idString(m.MedicalRecordId), m.SentAt.String(), m.OrderStatus.DisplayName(),
		})
	}
	return a.table([]string{"ID", "患者", "病历ID", "发送时间", "状态"}, rows)
}
