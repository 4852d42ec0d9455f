package http

import (
	"encoding/json"
	"fmt"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/services"
)

// Wire DTOs. Amounts travel as decimal reais, storage keeps cents.

// wireAmount decodes a money value from either a JSON number or a decimal
// string with a dot or comma separator ("12,34"), which pt-BR form inputs
// send.
type wireAmount core.Money

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return err
		}
		a.Cents = cents
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = wireAmount(core.MoneyFromFloat(v))
	return nil
}

type incomeRequest struct {
	Descricao string     `json:"descricao"`
	Valor     wireAmount `json:"valor"`
	Data      string     `json:"data"`
	Salario   bool       `json:"salario"`
}

func (req incomeRequest) toDomain() (core.Income, error) {
	date, err := core.ParseDate(req.Data)
	if err != nil {
		return core.Income{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Data)
	}
	return core.Income{
		Description: sanitizeInput(req.Descricao),
		Amount:      core.Money(req.Valor),
		Date:        date,
		Salary:      req.Salario,
	}, nil
}

type incomeResponse struct {
	ID        int64   `json:"id"`
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
	Data      string  `json:"data"`
	Salario   bool    `json:"salario"`
	UserID    string  `json:"userId"`
}

func newIncomeResponse(rec ledger.IncomeRecord) incomeResponse {
	return incomeResponse{
		ID:        rec.ID,
		Descricao: rec.Description,
		Valor:     rec.Amount.Float(),
		Data:      rec.Date.String(),
		Salario:   rec.Salary,
		UserID:    rec.UserID,
	}
}

type expenseRequest struct {
	Descricao string     `json:"descricao"`
	Valor     wireAmount `json:"valor"`
	Data      string     `json:"data"`
	Tipo      string     `json:"tipo"`
}

func (req expenseRequest) toDomain() (core.Expense, error) {
	date, err := core.ParseDate(req.Data)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, req.Data)
	}
	return core.Expense{
		Description: sanitizeInput(req.Descricao),
		Amount:      core.Money(req.Valor),
		Date:        date,
		Kind:        core.ExpenseKind(req.Tipo),
	}, nil
}

type expenseResponse struct {
	ID        int64   `json:"id"`
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
	Data      string  `json:"data"`
	Tipo      string  `json:"tipo"`
	UserID    string  `json:"userId"`
}

func newExpenseResponse(rec ledger.ExpenseRecord) expenseResponse {
	return expenseResponse{
		ID:        rec.ID,
		Descricao: rec.Description,
		Valor:     rec.Amount.Float(),
		Data:      rec.Date.String(),
		Tipo:      string(rec.Kind),
		UserID:    rec.UserID,
	}
}

type goalRequest struct {
	NomeMeta      string     `json:"nomeMeta"`
	ValorObjetivo wireAmount `json:"valorObjetivo"`
	ValorAtual    wireAmount `json:"valorAtual"`
	DataLimite    string     `json:"dataLimite"`
	Categoria     string     `json:"categoria"`
}

func (req goalRequest) toDomain() (core.Goal, error) {
	deadline, err := core.ParseDate(req.DataLimite)
	if err != nil {
		return core.Goal{}, fmt.Errorf("%w: %q", core.ErrMissingDeadline, req.DataLimite)
	}
	return core.Goal{
		Name:     sanitizeInput(req.NomeMeta),
		Target:   core.Money(req.ValorObjetivo),
		Current:  core.Money(req.ValorAtual),
		Deadline: deadline,
		Category: core.GoalCategory(req.Categoria),
	}, nil
}

type goalResponse struct {
	ID            int64   `json:"id"`
	NomeMeta      string  `json:"nomeMeta"`
	ValorObjetivo float64 `json:"valorObjetivo"`
	ValorAtual    float64 `json:"valorAtual"`
	DataLimite    string  `json:"dataLimite"`
	Categoria     string  `json:"categoria"`
	Percentual    float64 `json:"percentual"`
	Concluida     bool    `json:"concluida"`
	UserID        string  `json:"userId"`
}

func newGoalResponse(rec ledger.GoalRecord) goalResponse {
	progress := core.ProgressOf(rec.Goal)
	return goalResponse{
		ID:            rec.ID,
		NomeMeta:      rec.Name,
		ValorObjetivo: rec.Target.Float(),
		ValorAtual:    rec.Current.Float(),
		DataLimite:    rec.Deadline.String(),
		Categoria:     string(rec.Category),
		Percentual:    progress.Percent,
		Concluida:     progress.Complete,
		UserID:        rec.UserID,
	}
}

type bucketResponse struct {
	Mes      string  `json:"mes"`
	Label    string  `json:"label"`
	Entradas float64 `json:"entradas"`
	Saidas   float64 `json:"saidas"`
}

type transactionResponse struct {
	Tipo      string  `json:"tipo"`
	ID        int64   `json:"id"`
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
	Data      string  `json:"data"`
}

type goalsOverviewResponse struct {
	Total      int     `json:"total"`
	Concluidas int     `json:"concluidas"`
	Objetivo   float64 `json:"objetivo"`
	Acumulado  float64 `json:"acumulado"`
	Percentual float64 `json:"percentual"`
}

func newGoalsOverviewResponse(ov core.GoalsOverview) goalsOverviewResponse {
	return goalsOverviewResponse{
		Total:      ov.Count,
		Concluidas: ov.Complete,
		Objetivo:   ov.TargetTotal.Float(),
		Acumulado:  ov.CurrentTotal.Float(),
		Percentual: ov.Percent,
	}
}

type dashboardResponse struct {
	Mes                string                `json:"mes"`
	TotalEntradas      float64               `json:"totalEntradas"`
	TotalSalario       float64               `json:"totalSalario"`
	OutrasEntradas     float64               `json:"outrasEntradas"`
	TotalSaidas        float64               `json:"totalSaidas"`
	SaidasFixas        float64               `json:"saidasFixas"`
	SaidasVariaveis    float64               `json:"saidasVariaveis"`
	Saldo              float64               `json:"saldo"`
	TaxaGasto          float64               `json:"taxaGasto"`
	VariacaoEntradas   *float64              `json:"variacaoEntradas"`
	VariacaoSaidas     *float64              `json:"variacaoSaidas"`
	Historico          []bucketResponse      `json:"historico"`
	UltimasTransacoes  []transactionResponse `json:"ultimasTransacoes"`
	Metas              goalsOverviewResponse `json:"metas"`
	RegistrosIgnorados int                   `json:"registrosIgnorados"`
}

func newDashboardResponse(d services.DashboardSummary) dashboardResponse {
	resp := dashboardResponse{
		Mes:                d.Summary.Month.Key(),
		TotalEntradas:      d.Summary.Totals.Income.Float(),
		TotalSalario:       d.Summary.Totals.Salary.Float(),
		OutrasEntradas:     d.Summary.Totals.OtherIncome.Float(),
		TotalSaidas:        d.Summary.Totals.Expense.Float(),
		SaidasFixas:        d.Summary.Totals.Fixed.Float(),
		SaidasVariaveis:    d.Summary.Totals.Variable.Float(),
		Saldo:              d.Summary.Totals.Balance.Float(),
		TaxaGasto:          d.Summary.Totals.SpendRate,
		Historico:          make([]bucketResponse, 0, len(d.Buckets)),
		UltimasTransacoes:  make([]transactionResponse, 0, len(d.Recent)),
		Metas:              newGoalsOverviewResponse(d.Goals),
		RegistrosIgnorados: d.Skipped,
	}

	// Null signals "no comparison base", zero would read as flat.
	if !d.Summary.IncomeChange.NoChange {
		v := d.Summary.IncomeChange.Percent
		resp.VariacaoEntradas = &v
	}
	if !d.Summary.ExpenseChange.NoChange {
		v := d.Summary.ExpenseChange.Percent
		resp.VariacaoSaidas = &v
	}

	for _, b := range d.Buckets {
		resp.Historico = append(resp.Historico, bucketResponse{
			Mes:      b.Month.Key(),
			Label:    b.Month.Label(),
			Entradas: b.Income.Float(),
			Saidas:   b.Expense.Float(),
		})
	}
	for _, tx := range d.Recent {
		resp.UltimasTransacoes = append(resp.UltimasTransacoes, transactionResponse{
			Tipo:      tx.Kind,
			ID:        tx.ID,
			Descricao: tx.Description,
			Valor:     tx.Amount.Float(),
			Data:      tx.Date.String(),
		})
	}

	return resp
}

type monthlyReportResponse struct {
	Mes             string            `json:"mes"`
	TotalEntradas   float64           `json:"totalEntradas"`
	TotalSaidas     float64           `json:"totalSaidas"`
	SaidasFixas     float64           `json:"saidasFixas"`
	SaidasVariaveis float64           `json:"saidasVariaveis"`
	Saldo           float64           `json:"saldo"`
	Entradas        []incomeResponse  `json:"entradas"`
	Saidas          []expenseResponse `json:"saidas"`
}

func newMonthlyReportResponse(rep services.MonthlyReport) monthlyReportResponse {
	resp := monthlyReportResponse{
		Mes:             rep.Month.Key(),
		TotalEntradas:   rep.Totals.Income.Float(),
		TotalSaidas:     rep.Totals.Expense.Float(),
		SaidasFixas:     rep.Totals.Fixed.Float(),
		SaidasVariaveis: rep.Totals.Variable.Float(),
		Saldo:           rep.Totals.Balance.Float(),
		Entradas:        make([]incomeResponse, 0, len(rep.Incomes)),
		Saidas:          make([]expenseResponse, 0, len(rep.Expenses)),
	}
	for _, rec := range rep.Incomes {
		resp.Entradas = append(resp.Entradas, newIncomeResponse(rec))
	}
	for _, rec := range rep.Expenses {
		resp.Saidas = append(resp.Saidas, newExpenseResponse(rec))
	}
	return resp
}

type goalsSummaryResponse struct {
	Metas  []goalResponse        `json:"metas"`
	Resumo goalsOverviewResponse `json:"resumo"`
}

func newGoalsSummaryResponse(gs services.GoalsSummary) goalsSummaryResponse {
	resp := goalsSummaryResponse{
		Metas:  make([]goalResponse, 0, len(gs.Goals)),
		Resumo: newGoalsOverviewResponse(gs.Overview),
	}
	for _, rec := range gs.Goals {
		resp.Metas = append(resp.Metas, newGoalResponse(rec))
	}
	return resp
}
