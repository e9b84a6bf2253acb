package game

import (
	"fmt"
	"strings"
)

const introText = `EL CAMINO DEL DESIERTO — Escape Room (San Antonio Abad)

Comandos:
• /pista
• /inventario
• /estado
• /reiniciar

Elige cómo quieres jugar:`

const (
	msgUseStart         = "Usa /start y elige modo para comenzar."
	msgPressStart       = "Pulsa /start para comenzar."
	msgAlreadyCompleted = "Ya completaste el escape. Usa /reiniciar si quieres repetir."
	msgRetry            = "No es correcto. Inténtalo de nuevo."
	msgRetryWithHint    = "No es correcto. Inténtalo de nuevo. (Usa /pista si lo necesitas.)"
	msgRetryOneWord     = "No es correcto. Inténtalo de nuevo (una palabra)."
	msgOptionalDone     = "Esta sala opcional ya está completada."
	msgOptionalNoHints  = "Esta sala opcional no tiene pista automática."
	msgRoomNoHints      = "Esta sala no tiene pistas."
	msgNoMoreHints      = "No hay más pistas disponibles para esta sala."
	msgNotStartedHint   = "Aún no has comenzado. Usa /start."
	msgRestarted        = "Partida reiniciada. Usa /start para comenzar de nuevo."
	msgRestartKept      = "De acuerdo. No se reinicia."
	msgUnknownChoice    = "Orden desconocida."
	msgStaleChoice      = "Esa opción ya no está disponible."
	msgInternalError    = "Algo ha salido mal. Inténtalo de nuevo en unos segundos."
)

func restartConfirm() Reply {
	return Reply{
		Text: "¿Reiniciar partida? Se perderá el progreso.",
		Buttons: [][]Button{
			{{Label: "Sí, reiniciar", Data: ChoiceRestartYes}},
			{{Label: "No", Data: ChoiceRestartNo}},
		},
	}
}

func optionalOffer(cp Checkpoint) Reply {
	return Reply{
		Text: "Has desbloqueado una sala opcional.\nPuedes hacerla para ganar una recompensa o continuar.",
		Buttons: [][]Button{
			{{Label: "Entrar en sala opcional", Data: optEnterPrefix + cp.Optional}},
			{{Label: "Seguir ruta principal", Data: fmt.Sprintf("%s%s_%d", optSkipPrefix, cp.Optional, cp.NextRoom)}},
		},
	}
}

func statusText(s *Session, now int64) string {
	mode := string(s.Mode)
	if mode == "" {
		mode = "(sin elegir)"
	}
	b := ScoreOf(s, now)
	return fmt.Sprintf(`ESTADO
Modo: %s
Sala: %d/%d
Tiempo (con penalización): %d s
Penalización acumulada: %d s
Pistas usadas: %d
Intentos totales: %d
Opcionales completadas: %d
Pistas gratuitas: %d
Comodines: %d
Puntuación provisional: %d/%d`,
		mode, s.Room, lastRoom,
		b.TimeSec, b.PenaltySec, b.HintsUsed, b.Attempts, b.OptionalDone,
		s.FreeHints, s.Jokers, b.Score, baseScore)
}

func inventoryText(s *Session) string {
	var sb strings.Builder
	sb.WriteString("INVENTARIO\n")
	if len(s.Inventory) == 0 {
		sb.WriteString("(vacío)")
	} else {
		for i, item := range s.Inventory {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString("• " + item)
		}
	}
	fmt.Fprintf(&sb, "\n\nPistas gratuitas: %d\nComodines: %d", s.FreeHints, s.Jokers)
	return sb.String()
}

func finalReportText(s *Session, now int64) string {
	b := ScoreOf(s, now)
	return fmt.Sprintf(`PUNTUACION FINAL
Puntos: %d
Tiempo total: %d s
Penalizacion acumulada: %d s
Pistas usadas: %d
Intentos totales: %d
Opcionales completadas: %d

Gracias por jugar.`,
		b.Score, b.TimeSec, b.PenaltySec, b.HintsUsed, b.Attempts, b.OptionalDone)
}
