package report

const reportHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    body { font-family: Georgia, serif; color: #1a2340; margin: 0; padding: 32px; font-size: 13px; }
    h1 { font-size: 20px; color: #0f1f40; margin-bottom: 4px; }
    h2 { font-size: 15px; color: #0f1f40; margin-top: 24px; margin-bottom: 8px; border-bottom: 1px solid #d1d9e6; padding-bottom: 4px; }
    .meta { font-family: monospace; font-size: 10px; color: #6b7280; margin-bottom: 24px; }
    .narrative { background: #f0f4fb; border-left: 3px solid #1a3a6b; padding: 14px 16px; margin: 16px 0; font-style: italic; line-height: 1.6; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; font-family: Arial, sans-serif; font-size: 11px; }
    th { background: #1a3a6b; color: #fff; padding: 6px 10px; text-align: left; font-weight: 600; }
    td { padding: 5px 10px; border-bottom: 1px solid #e5e9f0; }
    .highlight { font-weight: 700; font-size: 14px; color: #0f1f40; }
    .warning { color: #b45309; }
    .missing { color: #b91c1c; }
    .footer { margin-top: 40px; font-size: 10px; color: #9ca3af; border-top: 1px solid #e5e9f0; padding-top: 12px; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="meta">Request ID: {{.Session.RequestID}} &nbsp;|&nbsp; Generated: {{.Generated}}</p>

  {{range .Found}}
  <div class="section">
    <h2>{{.Property.Address}}</h2>
    <div class="narrative">{{.Narrative}}</div>
    <table>
      <thead><tr><th>Field</th><th>Value</th></tr></thead>
      <tbody>
        <tr><td>PIN</td><td><code>{{.PIN}}</code></td></tr>
        <tr><td>Township</td><td>{{.Property.Township}}</td></tr>
        <tr><td>Neighborhood Code</td><td>{{.Property.NeighborhoodCode}}</td></tr>
        <tr><td>Board Assessment</td><td>{{currency .Property.Board}}</td></tr>
        <tr><td>Certified Assessment</td><td>{{currency .Property.Certified}}</td></tr>
        <tr><td>Mailed Assessment</td><td>{{currency .Property.Mailed}}</td></tr>
        <tr><td>Selected Assessment</td><td><strong>{{currency .Assessment.Value}}</strong> ({{.Assessment.Label}})</td></tr>
        <tr><td>Tax Rate Year</td><td>{{.TaxRateYear}}</td></tr>
        <tr><td>Tax Rate</td><td>{{percent .TaxRateValue}}</td></tr>
        <tr><td>Equalization Factor</td><td>{{factor .Property.EqualizationFactor}}</td></tr>
        <tr><td>Estimated Annual Taxes</td><td class="highlight">{{currency .EstimatedTax}}</td></tr>
        {{if .Warnings}}<tr><td>Warnings</td><td class="warning">{{join .Warnings "; "}}</td></tr>{{end}}
      </tbody>
    </table>
  </div>
  {{end}}

  <h2>Summary</h2>
  <table>
    <thead><tr><th>PIN</th><th>Found</th><th>Assessment</th><th>Estimated Taxes</th><th>Draft Line Item</th></tr></thead>
    <tbody>
      {{range .All}}
      <tr>
        <td><code>{{.PIN}}</code></td>
        <td>{{yesno .Found}}</td>
        <td>{{currency .Assessment.Value}} ({{.Assessment.Label}})</td>
        <td{{if not .EstimatedTax.Present}} class="missing"{{end}}>{{currency .EstimatedTax}}</td>
        <td>{{.DraftLineItem}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="footer">
    <p>Request ID: {{.Session.RequestID}} &nbsp;|&nbsp; Analyze Current Taxes: {{yesno .Session.Options.AnalyzeCurrentTaxes}} &nbsp;|&nbsp; Income Approach: {{yesno .Session.Options.IncomeApproach}}</p>
  </div>
</body>
</html>
`
