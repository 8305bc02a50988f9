package admin

import (
	"strings"

	"portfolio-backend/internal/shared/util"
)

// RenderTable renders listing rows as HTML table rows. All record fields are
// escaped; URLs additionally have backticks stripped before landing in an
// attribute.
func RenderTable(rows []Row) string {
	var b strings.Builder
	for _, row := range rows {
		name := strings.TrimSpace(row.LastName + " " + row.FirstName)
		date := row.CreatedAt.Format("02/01/2006 15:04:05")

		b.WriteString("<tr>")
		cell(&b, util.EscapeHTML(name))
		cell(&b, util.EscapeHTML(row.Email))
		cell(&b, util.EscapeHTML(row.Phone))
		cell(&b, util.EscapeHTML(row.Domain))
		cell(&b, util.EscapeHTML(date))
		b.WriteString(`<td><a href="`)
		b.WriteString(util.EscapeAttr(row.FileURL))
		b.WriteString(`" target="_blank" rel="noopener noreferrer">Ouvrir</a></td>`)
		b.WriteString("</tr>\n")
	}
	return b.String()
}

func cell(b *strings.Builder, content string) {
	b.WriteString("<td>")
	b.WriteString(content)
	b.WriteString("</td>")
}
