package navigation

import "testing"

func TestMultiNavigatesInOrder(t *testing.T) {
	var got []string
	record := func(name string) Navigator {
		return NavigatorFunc(func(r Route) { got = append(got, name+" "+r.String()) })
	}

	Multi{record("hub"), nil, record("log")}.Navigate(RouteLogin)

	if len(got) != 2 || got[0] != "hub /login" || got[1] != "log /login" {
		t.Fatalf("unexpected fan-out %v", got)
	}
}
