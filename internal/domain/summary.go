package domain

// InstrumentBalance pairs an instrument with its computed balance.
type InstrumentBalance struct {
	Instrument  Instrument
	Outstanding Outstanding
}

// GroupSummary totals one side (receivable or payable) of a customer's instruments.
type GroupSummary struct {
	TotalOutstanding Paise
	TotalOriginal    Paise
	InstrumentCount  int
}

func (g GroupSummary) add(b InstrumentBalance) GroupSummary {
	g.TotalOutstanding += b.Outstanding.OutstandingPaise
	g.TotalOriginal += b.Instrument.PrincipalPaise
	g.InstrumentCount++
	return g
}

// CustomerSummary is the receivable/payable split for one customer.
type CustomerSummary struct {
	CustomerID string
	Receivable GroupSummary
	Payable    GroupSummary
}

// Net is what the customer owes the shop minus what the shop owes the customer.
func (s CustomerSummary) Net() Paise {
	return s.Receivable.TotalOutstanding - s.Payable.TotalOutstanding
}

// IsEmpty reports whether the customer has no instruments at all.
func (s CustomerSummary) IsEmpty() bool {
	return s.Receivable.InstrumentCount == 0 && s.Payable.InstrumentCount == 0
}

// SummarizeCustomer partitions balances by direction. Positive directions are receivable
// (the shop is owed), negative ones payable.
func SummarizeCustomer(customerID string, balances []InstrumentBalance) CustomerSummary {
	summary := CustomerSummary{CustomerID: customerID}
	for _, b := range balances {
		switch {
		case b.Instrument.Direction > 0:
			summary.Receivable = summary.Receivable.add(b)
		case b.Instrument.Direction < 0:
			summary.Payable = summary.Payable.add(b)
		}
	}
	return summary
}

// BusinessSummary is the shop-wide position.
type BusinessSummary struct {
	TotalToCollect  Paise
	TotalToPay      Paise
	NetPosition     Paise
	CustomerCount   int
	ReceivableCount int
	PayableCount    int
}

// SummarizeBusiness rolls customer summaries up into business totals. Empty input yields
// the zero summary.
func SummarizeBusiness(customers []CustomerSummary) BusinessSummary {
	var s BusinessSummary
	for _, c := range customers {
		s.TotalToCollect += c.Receivable.TotalOutstanding
		s.TotalToPay += c.Payable.TotalOutstanding
		s.ReceivableCount += c.Receivable.InstrumentCount
		s.PayableCount += c.Payable.InstrumentCount
		s.CustomerCount++
	}
	s.NetPosition = s.TotalToCollect - s.TotalToPay
	return s
}

// Merge combines summaries of two disjoint customer sets.
func (s BusinessSummary) Merge(o BusinessSummary) BusinessSummary {
	merged := BusinessSummary{
		TotalToCollect:  s.TotalToCollect + o.TotalToCollect,
		TotalToPay:      s.TotalToPay + o.TotalToPay,
		CustomerCount:   s.CustomerCount + o.CustomerCount,
		ReceivableCount: s.ReceivableCount + o.ReceivableCount,
		PayableCount:    s.PayableCount + o.PayableCount,
	}
	merged.NetPosition = merged.TotalToCollect - merged.TotalToPay
	return merged
}

// GroupPaymentsBySource indexes payments by the instrument they settle. A payment ID seen
// twice is rejected so that no payment is counted against more than one instrument.
func GroupPaymentsBySource(payments []*Payment) (map[string][]Payment, error) {
	seen := make(map[string]struct{}, len(payments))
	grouped := make(map[string][]Payment)
	for _, p := range payments {
		if p.ID != "" {
			if _, dup := seen[p.ID]; dup {
				return nil, ErrDuplicatePayment
			}
			seen[p.ID] = struct{}{}
		}
		grouped[p.SourceRef] = append(grouped[p.SourceRef], *p)
	}
	return grouped, nil
}

// BalanceEntries computes the outstanding balance of each entry from the grouped payments.
func BalanceEntries(entries []*UdhariEntry, bySource map[string][]Payment) ([]InstrumentBalance, error) {
	balances := make([]InstrumentBalance, 0, len(entries))
	for _, e := range entries {
		inst := e.Instrument()
		out, err := ComputeOutstanding(inst, bySource[e.ID])
		if err != nil {
			return nil, err
		}
		balances = append(balances, InstrumentBalance{Instrument: inst, Outstanding: out})
	}
	return balances, nil
}

// SummarizeByCustomer groups balances per customer, keeping first-seen customer order.
func SummarizeByCustomer(balances []InstrumentBalance) []CustomerSummary {
	order := make([]string, 0)
	byCustomer := make(map[string][]InstrumentBalance)
	for _, b := range balances {
		id := b.Instrument.CustomerID
		if _, ok := byCustomer[id]; !ok {
			order = append(order, id)
		}
		byCustomer[id] = append(byCustomer[id], b)
	}

	summaries := make([]CustomerSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, SummarizeCustomer(id, byCustomer[id]))
	}
	return summaries
}
