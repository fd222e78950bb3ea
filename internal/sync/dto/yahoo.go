package dto

// FormattedValue is Yahoo's raw/fmt value pair. The fmt string may carry
// currency symbols, percent signs or magnitude suffixes; normalization
// happens downstream.
type FormattedValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

// QuoteSummaryResponse is the envelope of the quoteSummary endpoint.
type QuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []QuoteSummaryResult `json:"result"`
		Error  *YahooError          `json:"error"`
	} `json:"quoteSummary"`
}

// QuoteSummaryResult holds the modules requested from quoteSummary.
type QuoteSummaryResult struct {
	CalendarEvents *struct {
		Earnings struct {
			EarningsDate    []FormattedValue `json:"earningsDate"`
			EarningsHigh    FormattedValue   `json:"earningsHigh"`
			EarningsLow     FormattedValue   `json:"earningsLow"`
			EarningsAverage FormattedValue   `json:"earningsAverage"`
			RevenueHigh     FormattedValue   `json:"revenueHigh"`
			RevenueLow      FormattedValue   `json:"revenueLow"`
			RevenueAverage  FormattedValue   `json:"revenueAverage"`
		} `json:"earnings"`
		DividendDate   FormattedValue `json:"dividendDate"`
		ExDividendDate FormattedValue `json:"exDividendDate"`
	} `json:"calendarEvents"`
	EarningsHistory *struct {
		History []struct {
			Quarter         FormattedValue `json:"quarter"`
			EPSEstimate     FormattedValue `json:"epsEstimate"`
			EPSActual       FormattedValue `json:"epsActual"`
			SurprisePercent FormattedValue `json:"surprisePercent"`
		} `json:"history"`
	} `json:"earningsHistory"`
}

// ChartResponse is the envelope of the chart endpoint, requested with
// dividend and split events.
type ChartResponse struct {
	Chart struct {
		Result []struct {
			Events struct {
				Dividends map[string]ChartDividend `json:"dividends"`
				Splits    map[string]ChartSplit    `json:"splits"`
			} `json:"events"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

// ChartDividend is one dividend event on the chart endpoint.
type ChartDividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// ChartSplit is one split event on the chart endpoint.
type ChartSplit struct {
	Date       int64  `json:"date"`
	SplitRatio string `json:"splitRatio"`
}

// EarningsCalendarResponse is the envelope of the paged broad-market
// earnings calendar endpoint.
type EarningsCalendarResponse struct {
	Finance struct {
		Result []struct {
			Rows []EarningsCalendarRow `json:"rows"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"finance"`
}

// EarningsCalendarRow is one broad-market earnings calendar row.
type EarningsCalendarRow struct {
	Ticker            string `json:"ticker"`
	CompanyShortName  string `json:"companyshortname"`
	StartDateTime     string `json:"startdatetime"`
	StartDateTimeType string `json:"startdatetimetype"`
	EventName         string `json:"eventname"`
	MarketCap         string `json:"intradaymarketcap"`
	EPSEstimate       string `json:"epsestimate"`
	EPSActual         string `json:"epsactual"`
	EPSSurprisePct    string `json:"epssurprisepct"`
}

// YahooError is the error object embedded in Yahoo responses.
type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
