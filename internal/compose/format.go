package compose

import (
	"math"
	"strconv"
	"strings"
)

// FormatFileSize renders a byte count with a B/KB/MB/GB suffix, keeping
// at most two decimal digits and trimming trailing zeros ("1.5 KB").
func FormatFileSize(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB"}
	value := float64(bytes)
	order := 0
	for value >= 1024 && order < len(units)-1 {
		order++
		value /= 1024
	}
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + units[order]
}

// fieldKindLabel translates a form-field kind tag into its display label.
// The "button" kind only exists on the HTML screens, so only that dialect
// knows it; unrecognized kinds pass through unchanged.
func fieldKindLabel(kind string, dialect Dialect) string {
	switch kind {
	case "text":
		return "Texto"
	case "number":
		return "Número"
	case "date":
		return "Data"
	case "datetime":
		return "Data e Hora"
	case "boolean":
		return "Sim/Não"
	case "select":
		return "Lista de Opções"
	case "button":
		if dialect == HTML {
			return "Botão"
		}
	}
	return kind
}

// splitCriteria breaks an acceptance-criteria text into its non-blank
// lines, stripping any pre-existing list marker from each one.
func splitCriteria(text string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(trimmed, marker) {
				trimmed = strings.TrimSpace(trimmed[len(marker):])
				break
			}
		}
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func severityLabel(severity string) string {
	switch severity {
	case "low":
		return "🟢 Baixa"
	case "medium":
		return "🟡 Média"
	case "high":
		return "🟠 Alta"
	case "critical":
		return "🔴 Crítica"
	default:
		return "❓ Não especificada"
	}
}

func priorityLabel(priority string) string {
	switch priority {
	case "low":
		return "🟢 Baixa"
	case "medium":
		return "🟡 Média"
	case "high":
		return "🟠 Alta"
	case "critical":
		return "🔴 Crítica"
	default:
		return "❓ Não especificada"
	}
}

func issueTypeLabel(kind string) string {
	switch kind {
	case "bug":
		return "🐛 Bug"
	case "feature":
		return "✨ Nova Funcionalidade"
	case "improvement":
		return "🚀 Melhoria"
	case "task":
		return "📋 Tarefa"
	default:
		return "❓ Não especificado"
	}
}

func occurrenceLabel(occurrence int) string {
	switch occurrence {
	case 1:
		return "🔄 Sempre"
	case 2:
		return "⏱️ Às vezes"
	case 3:
		return "🎯 Uma vez"
	default:
		return "❓ Não especificado"
	}
}
