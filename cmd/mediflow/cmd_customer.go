package main

import (
	"fmt"
	"strings"

	"github.com/sgzs6721/mediflow-front/domain/customer"
	"github.com/spf13/cobra"
)

const customerRoute = "/business/customers"

func (a *app) customersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "客户管理",
	}
	cmd.AddCommand(
		a.customerListCmd(),
		a.customerShowCmd(),
		a.customerCreateCmd(),
		a.customerUpdateCmd(),
		a.customerDeleteCmd(),
		a.followUpListCmd(),
		a.followUpAddCmd(),
		a.orderListCmd(),
		a.orderCreateCmd(),
		a.orderPayCmd(),
	)
	return cmd
}

func (a *app) customerListCmd() *cobra.Command {
	var keyword, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "客户列表",
		Args:  cobra.NoArgs,
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			list, err := a.customers.List(cmd.Context(), customer.Search{
				Keyword: keyword,
				Status:  customer.Status(strings.ToUpper(status)),
			})
			if err != nil {
				return err
			}
			return a.printCustomers(list)
		}),
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "姓名或手机号")
	cmd.Flags().StringVar(&status, "status", "", "LEAD|PATIENT|IN_TREATMENT|COMPLETED")
	return cmd
}

// customerShowCmd 客户360视图
func (a *app) customerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "客户360视图",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			v, err := a.customers.View(cmd.Context(), id)
			if err != nil {
				return err
			}
			c := v.Customer
			if err := a.fields(
				"姓名", c.Name,
				"性别", c.Gender,
				"手机号", c.Phone,
				"身份证号", c.IdCard,
				"公司", c.CompanyName,
				"经济实力", c.FinancialStrength,
				"客户需求", c.CustomerNeeds,
				"状态", c.CustomerStatus.DisplayName(),
				"病历号", c.MedicalRecordNo,
				"订单", fmt.Sprintf("%d笔 共%s元", v.TotalOrders, money(v.TotalAmount)),
				"回访", fmt.Sprintf("%d次", v.TotalFollowUps),
				"预约", fmt.Sprintf("%d个", len(v.Appointments)),
			); err != nil {
				return err
			}
			if e := v.LatestExamination; e != nil {
				fmt.Fprintf(a.out, "最近体检: %s 身高%.1fcm 体重%.1fkg BMI %.1f(%s)\n",
					e.ExamTime.String(), e.Height, e.Weight, e.Bmi, e.BmiLevel())
			}
			if r := v.LatestMedicalRecord; r != nil {
				fmt.Fprintf(a.out, "最近病历: %s %s\n", r.VisitTime.String(), r.DiagnosisConclusion)
			}
			return nil
		}),
	}
}

func (a *app) customerCreateCmd() *cobra.Command {
	form := &customer.Form{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "新增客户",
		Args:  cobra.NoArgs,
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			c, err := a.customers.Create(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printCustomers([]*customer.Customer{c})
		}),
	}
	bindCustomerForm(cmd, form)
	return cmd
}

func (a *app) customerUpdateCmd() *cobra.Command {
	form := &customer.Form{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "修改客户,未指定的字段保持原值",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			old, err := a.customers.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := mergeCustomerForm(cmd, old, form)
			c, err := a.customers.Update(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			return a.printCustomers([]*customer.Customer{c})
		}),
	}
	bindCustomerForm(cmd, form)
	return cmd
}

func (a *app) customerDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除客户",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			return a.customers.Delete(cmd.Context(), id)
		}),
	}
}

func (a *app) followUpListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow-ups <customerId>",
		Short: "回访记录",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			list, err := a.customers.FollowUps(cmd.Context(), id)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(list))
			for _, f := range list {
				rows = append(rows, []string{
					idString(f.Id), f.VisitTime.String(), f.VisitMethod, f.VisitContent, f.NextFollowUpTime.String(),
				})
			}
			return a.table([]string{"ID", "回访时间", "方式", "内容", "下次回访"}, rows)
		}),
	}
}

func (a *app) followUpAddCmd() *cobra.Command {
	form := &customer.FollowUpForm{}
	cmd := &cobra.Command{
		Use:   "follow-up <customerId>",
		Short: "添加回访记录",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			form.VisitMethod = strings.ToUpper(form.VisitMethod)
			f, err := a.customers.AddFollowUp(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "回访记录ID: %d\n", f.Id)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.VisitMethod, "method", "PHONE", "PHONE|VISIT|WECHAT|OTHER")
	f.StringVar(&form.VisitContent, "content", "", "回访内容")
	f.StringVar(&form.VisitTime, "visit-time", "", "回访时间 2006-01-02 15:04:05(默认当前)")
	f.StringVar(&form.NextFollowUpTime, "next", "", "下次回访时间 2006-01-02 15:04:05")
	return cmd
}

func (a *app) orderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders <customerId>",
		Short: "客户订单",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			list, err := a.customers.Orders(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printOrders(list)
		}),
	}
}

func (a *app) orderCreateCmd() *cobra.Command {
	form := &customer.OrderForm{}
	cmd := &cobra.Command{
		Use:   "order-create <customerId>",
		Short: "新建订单",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			o, err := a.customers.CreateOrder(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return a.printOrders([]*customer.Order{o})
		}),
	}
	cmd.Flags().StringVar(&form.ProductName, "product", "", "产品名称")
	cmd.Flags().Float64Var(&form.OrderAmount, "amount", 0, "订单金额")
	return cmd
}

// orderPayCmd 确认收款,金额默认等于订单金额
func (a *app) orderPayCmd() *cobra.Command {
	var amount float64
	cmd := &cobra.Command{
		Use:   "pay <customerId> <orderId>",
		Short: "确认收款",
		Args:  cobra.ExactArgs(2),
		RunE: a.guard(customerRoute, func(cmd *cobra.Command, args []string) error {
			customerId, err := parseId(args[0])
			if err != nil {
				return err
			}
			orderId, err := parseId(args[1])
			if err != nil {
				return err
			}
			list, err := a.customers.Orders(cmd.Context(), customerId)
			if err != nil {
				return err
			}
			var order *customer.Order
			for _, o := range list {
				if o.Id == orderId {
					order = o
					break
				}
			}
			if order == nil {
				return fmt.Errorf("订单[%d]不存在", orderId)
			}
			paid := order.OrderAmount
			if cmd.Flags().Changed("amount") {
				paid = amount
			}
			if err := a.customers.ConfirmPayment(cmd.Context(), order, paid); err != nil {
				return err
			}
			return a.printOrders([]*customer.Order{order})
		}),
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "实收金额(默认订单金额)")
	return cmd
}

func bindCustomerForm(cmd *cobra.Command, form *customer.Form) {
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "姓名")
	f.StringVar(&form.Gender, "gender", "", "性别 男|女")
	f.StringVar(&form.Phone, "phone", "", "手机号")
	f.StringVar(&form.IdCard, "id-card", "", "身份证号")
	f.StringVar(&form.Industry, "industry", "", "行业")
	f.StringVar(&form.CompanyName, "company", "", "公司名称")
	f.StringVar(&form.FinancialStrength, "financial", "", "经济实力")
	f.StringVar(&form.CustomerNeeds, "needs", "", "客户需求")
	f.StringVar(&form.CustomerStatus, "status", "", "LEAD|PATIENT|IN_TREATMENT|COMPLETED")
}

// mergeCustomerForm 只覆盖命令行显式指定的字段
func mergeCustomerForm(cmd *cobra.Command, old *customer.Customer, form *customer.Form) *customer.Form {
	merged := &customer.Form{
		Name:              old.Name,
		Gender:            old.Gender,
		Phone:             old.Phone,
		IdCard:            old.IdCard,
		Industry:          old.Industry,
		CompanyName:       old.CompanyName,
		FinancialStrength: old.FinancialStrength,
		CustomerNeeds:     old.CustomerNeeds,
		CustomerStatus:    string(old.CustomerStatus),
	}
	// flag -> {目标, 命令行值}
	fields := map[string][2]*string{
		"name":      {&merged.Name, &form.Name},
		"gender":    {&merged.Gender, &form.Gender},
		"phone":     {&merged.Phone, &form.Phone},
		"id-card":   {&merged.IdCard, &form.IdCard},
		"industry":  {&merged.Industry, &form.Industry},
		"company":   {&merged.CompanyName, &form.CompanyName},
		"financial": {&merged.FinancialStrength, &form.FinancialStrength},
		"needs":     {&merged.CustomerNeeds, &form.CustomerNeeds},
		"status":    {&merged.CustomerStatus, &form.CustomerStatus},
	}
	for name, f := range fields {
		if cmd.Flags().Changed(name) {
			*f[0] = *f[1]
		}
	}
	return merged
}

func (a *app) printCustomers(list []*customer.Customer) error {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{
			idString(c.Id), c.Name, c.Gender, c.Phone, c.CustomerStatus.DisplayName(), c.MedicalRecordNo,
		})
	}
	return a.table([]string{"ID", "姓名", "性别", "手机号", "状态", "病历号"}, rows)
}

func (a *app) printOrders(list []*customer.Order) error {
	rows := make([][]string, 0, len(list))
	for _, o := range list {
		rows = append(rows, []string{
			idString(o.Id), o.OrderNo, o.ProductName, money(o.OrderAmount), money(o.PaidAmount), string(o.OrderStatus),
		})
	}
	return a.table([]string{"ID", "订单号", "产品", "金额", "实收", "状态"}, rows)
}
