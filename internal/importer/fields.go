package importer

import "github.com/soge-platform/api/internal/normalize"

// Header aliases per logical column. Order matters: the first alias present
// in a row wins.
var (
	clientIDField    = normalize.Field{"ClienteID", "clienteid", "id"}
	clientNameField  = normalize.Field{"Nome", "nome", "Cliente", "cliente"}
	clientPhoneField = normalize.Field{"Telefone", "telefone", "Celular", "celular"}
	clientEmailField = normalize.Field{"Email", "email"}
	clientNotesField = normalize.Field{"Observacoes", "Observações", "obs", "OBS"}

	eventIDField           = normalize.Field{"EventoID", "eventoid", "id"}
	eventClientRefField    = normalize.Field{"ClienteID", "clienteid"}
	eventDateField         = normalize.Field{"Data", "data", "EventDate", "event_date"}
	eventStartField        = normalize.Field{"HoraInicio", "Inicio", "start_time"}
	eventEndField          = normalize.Field{"HoraFim", "Fim", "end_time"}
	eventTypeField         = normalize.Field{"TipoEvento", "tipo", "Tipo"}
	eventThemeField        = normalize.Field{"Tema", "tema"}
	eventKidsField         = normalize.Field{"QtdCriancas", "Criancas", "kids_qty"}
	eventAvgAgeField       = normalize.Field{"IdadeMedia", "idade_media", "avg_age"}
	eventNeighborhoodField = normalize.Field{"Bairro", "bairro"}
	eventAddressField      = normalize.Field{"Endereco", "endereco", "Local", "local"}
	eventStatusField       = normalize.Field{"Status", "status"}
	eventNotesField        = normalize.Field{"Observacoes", "Observações", "obs"}

	proposalIDField       = normalize.Field{"PropostaID", "propostaid", "id"}
	proposalEventRefField = normalize.Field{"EventoID", "eventoid"}
	proposalDateField     = normalize.Field{"DataProposta", "data", "proposal_date"}
	proposalStatusField   = normalize.Field{"Status", "status"}
	proposalPackageField  = normalize.Field{"Descricao", "descricao", "Pacote", "pacote"}
	proposalRevenueField  = normalize.Field{"Receita", "valor", "revenue"}
	proposalPriceField    = normalize.Field{"PrecoSugerido", "suggested_price"}
	proposalCostField     = normalize.Field{"CustoTotal", "total_cost"}
	proposalServiceFields = [5]normalize.Field{
		{"Servico1", "servico1"},
		{"Servico2", "servico2"},
		{"Servico3", "servico3"},
		{"Servico4", "servico4"},
		{"Servico5", "servico5"},
	}

	paymentIDField          = normalize.Field{"PagamentoID", "pagamentoid", "id"}
	paymentProposalRefField = normalize.Field{"PropostaID", "propostaid"}
	paymentMethodField      = normalize.Field{"Forma", "Metodo", "method"}
	paymentDueDateField     = normalize.Field{"DataPrevista", "vencimento", "due_date"}
	paymentExpectedField    = normalize.Field{"ValorPrevisto", "valor", "expected_amount"}
	paymentPaidDateField    = normalize.Field{"DataPagamento", "paid_date"}
	paymentPaidAmountField  = normalize.Field{"ValorPago", "paid_amount"}
	paymentInstallmentField = normalize.Field{"Parcelas", "installments"}
)
