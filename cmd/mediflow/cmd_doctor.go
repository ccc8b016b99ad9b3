package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sgzs6721/mediflow-front/domain/medicalRecord"
	"github.com/sgzs6721/mediflow-front/domain/patient"
	"github.com/spf13/cobra"
)

const doctorRoute = "/doctor/workbench"

func (a *app) doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "医生工作台",
	}
	cmd.AddCommand(
		a.patientListCmd("queue", "待接诊患者", (*patient.Client).Queue),
		a.patientListCmd("patients", "我的患者", (*patient.Client).Mine),
		a.patientShowCmd(),
		a.recordCreateCmd(),
		a.recordUpdateCmd(),
		a.prescribeCmd(),
		a.prescriptionListCmd(),
		a.examCreateCmd(),
		a.examListCmd(),
		a.sendOrderCmd(),
	)
	return cmd
}

func (a *app) patientListCmd(use, short string, list func(*patient.Client, context.Context) ([]*patient.Patient, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			res, err := list(a.patients, cmd.Context())
			if err != nil {
				return err
			}
			return a.printCustomers(res)
		}),
	}
}

// patientShowCmd 患者详情、病历和最近体检
func (a *app) patientShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <patientId>",
		Short: "患者详情",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			p, err := a.patients.Detail(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.printCustomers([]*patient.Patient{p}); err != nil {
				return err
			}
			exam, err := a.records.LatestExam(cmd.Context(), id)
			if err != nil {
				return err
			}
			if exam != nil {
				fmt.Fprintln(a.out)
				if err := a.printExams([]*medicalRecord.PhysicalExam{exam}); err != nil {
					return err
				}
			}
			history, err := a.records.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out)
			return a.printRecords(history)
		}),
	}
}

func (a *app) recordCreateCmd() *cobra.Command {
	form := &medicalRecord.RecordForm{}
	cmd := &cobra.Command{
		Use:   "record <patientId>",
		Short: "新建病历",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			r, err := a.records.Create(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return a.printRecords([]*medicalRecord.MedicalRecord{r})
		}),
	}
	bindRecordForm(cmd, form)
	return cmd
}

func (a *app) recordUpdateCmd() *cobra.Command {
	form := &medicalRecord.RecordForm{}
	cmd := &cobra.Command{
		Use:   "record-update <recordId>",
		Short: "修改病历",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			r, err := a.records.Update(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return a.printRecords([]*medicalRecord.MedicalRecord{r})
		}),
	}
	bindRecordForm(cmd, form)
	return cmd
}

func (a *app) prescribeCmd() *cobra.Command {
	form := &medicalRecord.PrescriptionForm{}
	cmd := &cobra.Command{
		Use:   "prescribe <recordId>",
		Short: "开处方",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			p, err := a.records.AddPrescription(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return a.printPrescriptions([]*medicalRecord.Prescription{p})
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.DrugName, "drug", "", "药品名称")
	f.StringVar(&form.Specification, "spec", "", "规格")
	f.StringVar(&form.UsageMethod, "usage", "", "用法")
	f.StringVar(&form.Dosage, "dosage", "", "用量")
	f.StringVar(&form.Frequency, "frequency", "", "频次")
	f.StringVar(&form.Duration, "duration", "", "疗程")
	f.StringVar(&form.Notes, "notes", "", "备注")
	return cmd
}

func (a *app) prescriptionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prescriptions <recordId>",
		Short: "病历处方",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			list, err := a.records.Prescriptions(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printPrescriptions(list)
		}),
	}
}

func (a *app) examCreateCmd() *cobra.Command {
	form := &medicalRecord.ExamForm{}
	cmd := &cobra.Command{
		Use:   "exam <patientId>",
		Short: "录入体检数据",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			e, err := a.records.CreateExam(cmd.Context(), id, form)
			if err != nil {
				return err
			}
			return a.printExams([]*medicalRecord.PhysicalExam{e})
		}),
	}
	f := cmd.Flags()
	f.StringVar(&form.Height, "height", "", "身高(cm)")
	f.StringVar(&form.Weight, "weight", "", "体重(kg)")
	f.IntVar(&form.SystolicPressure, "systolic", 0, "收缩压")
	f.IntVar(&form.DiastolicPressure, "diastolic", 0, "舒张压")
	f.IntVar(&form.HeartRate, "heart-rate", 0, "心率")
	return cmd
}

func (a *app) examListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exams <patientId>",
		Short: "体检记录",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			list, err := a.records.Exams(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printExams(list)
		}),
	}
}

func (a *app) sendOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-order <recordId>",
		Short: "发送医嘱到护士工作台",
		Args:  cobra.ExactArgs(1),
		RunE: a.guard(doctorRoute, func(cmd *cobra.Command, args []string) error {
			id, err := parseId(args[0])
			if err != nil {
				return err
			}
			m, err := a.orders.SendOrder(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "医嘱ID: %d 状态: %s\n", m.Id, m.OrderStatus.DisplayName())
			return nil
		}),
	}
}

func bindRecordForm(cmd *cobra.Command, form *medicalRecord.RecordForm) {
	f := cmd.Flags()
	f.StringVar(&form.ChiefComplaint, "complaint", "", "主诉")
	f.StringVar(&form.PresentIllness, "present", "", "现病史")
	f.StringVar(&form.PastHistory, "past", "", "既往史")
	f.StringVar(&form.AllergyHistory, "allergy", "", "过敏史")
	f.StringVar(&form.DiagnosisConclusion, "diagnosis", "", "诊断结论")
	f.StringVar(&form.DiagnosisBasis, "basis", "", "诊断依据")
	f.StringVar(&form.TreatmentPlanName, "plan", "", "治疗方案")
	f.StringVar(&form.TreatmentCycle, "cycle", "", "疗程")
	f.StringVar(&form.TreatmentFrequency, "frequency", "", "频次")
	f.StringVar(&form.TreatmentDescription, "description", "", "方案说明")
}

func (a *app) printRecords(list []*medicalRecord.MedicalRecord) error {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			idString(r.Id), r.VisitTime.String(), r.ChiefComplaint, r.DiagnosisConclusion, r.TreatmentPlanName,
		})
	}
	return a.table([]string{"病历ID", "就诊时间", "主诉", "诊断结论", "治疗方案"}, rows)
}

func (a *app) printPrescriptions(list []*medicalRecord.Prescription) error {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			idString(p.Id), p.DrugName, p.Specification, p.UsageMethod, p.Dosage, p.Frequency, p.Duration,
		})
	}
	return a.table([]string{"ID", "药品", "规格", "用法", "用量", "频次", "疗程"}, rows)
}

func (a *app) printExams(list []*medicalRecord.PhysicalExam) error {
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{
			idString(e.Id), e.ExamTime.String(),
			strconv.FormatFloat(e.Height, 'f', 1, 64), strconv.FormatFloat(e.Weight, 'f', 1, 64),
			fmt.Sprintf("%.1f(%s)", e.Bmi, e.BmiLevel()),
			fmt.Sprintf("%d/%d", e.SystolicPressure, e.DiastolicPressure), strconv.Itoa(e.HeartRate),
		})
	}
	return a.table([]string{"ID", "体检时间", "身高", "体重", "BMI", "血压", "心率"}, rows)
}
