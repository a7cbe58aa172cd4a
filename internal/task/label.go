// Package task provides display helpers around a task's unit label: the
// question to ask when recording a completion, pluralization, and the points
// summary strings.
package task

import (
	"fmt"
	"strings"
)

// Question returns the prompt matching the task's unit label. Labels are
// matched lowercase and trimmed; unknown labels fall back to a generic prompt.
func Question(unitLabel string) string {
	label := strings.ToLower(strings.TrimSpace(unitLabel))
	if q, ok := questions[label]; ok {
		return q
	}
	return "Quantas vezes você completou?"
}

var questions = map[string]string{
	"treino":       "Quantos treinos você fez?",
	"sessão":       "Quantas sessões você completou?",
	"noite":        "Quantas noites?",
	"apresentação": "Quantas apresentações você leu?",
	"questões":     "Quantas questões você resolveu?",
	"ler":          "Quantas vezes você leu?",
	"vez":          "Quantas vezes você fez?",
	"hora":         "Quantas horas você dedicou?",
	"refeição":     "Quantas refeições você preparou?",
	"dia":          "Quantos dias você completou?",
	"página":       "Quantas páginas você leu?",
	"capítulo":     "Quantos capítulos você leu?",
	"minuto":       "Quantos minutos você praticou?",
	"exercício":    "Quantos exercícios você fez?",
	"tarefa":       "Quantas tarefas você completou?",
}

// Irregular plurals; everything else takes a trailing "s".
var pluralExceptions = map[string]string{
	"sessão":       "sessões",
	"apresentação": "apresentações",
	"questão":      "questões",
	"questões":     "questões",
	"refeição":     "refeições",
}

// Plural returns the unit label pluralized for the given quantity.
func Plural(unitLabel string, quantity int) string {
	if quantity == 1 {
		return unitLabel
	}

	label := strings.ToLower(strings.TrimSpace(unitLabel))
	if plural, ok := pluralExceptions[label]; ok {
		return plural
	}
	return unitLabel + "s"
}

// PointsDescription formats the task's earning rate, e.g. "5 pontos por treino".
func PointsDescription(pointsPerUnit int, unitLabel string) string {
	unit := "ponto"
	if pointsPerUnit > 1 {
		unit = "pontos"
	}
	return fmt.Sprintf("%d %s por %s", pointsPerUnit, unit, unitLabel)
}

// ConfirmationText summarizes a completion, e.g. "3 treinos = 15 pontos".
func ConfirmationText(quantity int, unitLabel string, points int) string {
	return fmt.Sprintf("%d %s = %d pontos", quantity, Plural(unitLabel, quantity), points)
}
