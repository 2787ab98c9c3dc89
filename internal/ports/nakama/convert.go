package nakama

import (
	"fmt"
	"strconv"

	"solitaire/internal/domain"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Wire messages are google.protobuf.Struct values in both directions.

func encodeFields(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func decodeFields(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

// intField reads a whole number field.
func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	i := int(n.NumberValue)
	if float64(i) != n.NumberValue {
		return 0, fmt.Errorf("field %q is not a whole number", name)
	}
	return i, nil
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// seeds travel as decimal strings so all 64 bits survive JSON clients.
func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func parseSeed(raw string) (uint64, error) {
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", raw)
	}
	return seed, nil
}

func cardToValue(c domain.Card) map[string]interface{} {
	out := map[string]interface{}{"kind": c.Kind.String()}
	switch c.Kind {
	case domain.Number:
		out["rank"] = int(c.Rank)
		out["color"] = c.Color.String()
	case domain.Dragon:
		out["color"] = c.Color.String()
	}
	return out
}

func cardsToList(cards []domain.Card) []interface{} {
	out := make([]interface{}, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToValue(c))
	}
	return out
}

func stacksToList(stacks []domain.Stack) []interface{} {
	out := make([]interface{}, 0, len(stacks))
	for i, st := range stacks {
		out = append(out, map[string]interface{}{
			"index": i,
			"role":  st.Role.String(),
			"cards": cardsToList(st.Cards),
		})
	}
	return out
}

func buttonsToList(buttons [3]domain.Button) []interface{} {
	out := make([]interface{}, 0, len(buttons))
	for _, b := range buttons {
		out = append(out, map[string]interface{}{
			"color": b.Color.String(),
			"state": b.State.String(),
		})
	}
	return out
}

func moveToValue(m domain.Move) map[string]interface{} {
	if m.Kind == domain.MoveButton {
		return map[string]interface{}{
			"type":   "button",
			"color":  m.Color.String(),
			"target": m.Target,
		}
	}
	return map[string]interface{}{
		"type":   "cards",
		"source": m.Source,
		"target": m.Target,
		"count":  m.N,
	}
}

func sourcesToList(sources [4]int) []interface{} {
	out := make([]interface{}, 0, len(sources))
	for _, s := range sources {
		out = append(out, s)
	}
	return out
}
