package task

import "testing"

func TestQuestion(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"treino", "Quantos treinos você fez?"},
		{"sessão", "Quantas sessões você completou?"},
		{"página", "Quantas páginas você leu?"},
		{"Treino", "Quantos treinos você fez?"},
		{"  treino  ", "Quantos treinos você fez?"},
		{"desconhecido", "Quantas vezes você completou?"},
		{"", "Quantas vezes você completou?"},
	}

	for _, tt := range tests {
		if got := Question(tt.label); got != tt.want {
			t.Errorf("Question(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		label string
		qty   int
		want  string
	}{
		{"treino", 1, "treino"},
		{"treino", 3, "treinos"},
		{"sessão", 2, "sessões"},
		{"apresentação", 4, "apresentações"},
		{"refeição", 2, "refeições"},
		{"questões", 5, "questões"},
		{"página", 2, "páginas"},
		{"Sessão", 2, "sessões"}, // exception lookup is case-insensitive
	}

	for _, tt := range tests {
		if got := Plural(tt.label, tt.qty); got != tt.want {
			t.Errorf("Plural(%q, %d) = %q, want %q", tt.label, tt.qty, got, tt.want)
		}
	}
}

func TestPointsDescription(t *testing.T) {
	if got := PointsDescription(5, "treino"); got != "5 pontos por treino" {
		t.Errorf("PointsDescription(5, treino) = %q", got)
	}
	if got := PointsDescription(1, "página"); got != "1 ponto por página" {
		t.Errorf("PointsDescription(1, página) = %q", got)
	}
}

func TestConfirmationText(t *testing.T) {
	if got := ConfirmationText(3, "treino", 15); got != "3 treinos = 15 pontos" {
		t.Errorf("ConfirmationText(3, treino, 15) = %q", got)
	}
	if got := ConfirmationText(1, "sessão", 2); got != "1 sessão = 2 pontos" {
		t.Errorf("ConfirmationText(1, sessão, 2) = %q", got)
	}
}
