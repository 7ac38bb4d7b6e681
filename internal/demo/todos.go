package demo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/bloom/pkg/domain"
	"github.com/aretw0/bloom/pkg/dsl"
)

// Todo is one entry of the todo list.
type Todo struct {
	ID   string `mapstructure:"id" json:"id"`
	Text string `mapstructure:"text" json:"text"`
}

// todoList is the typed view of the /todos session state.
type todoList struct {
	Items  []Todo `mapstructure:"items"`
	NextID int    `mapstructure:"next_id"`
}

func loadTodos(st *domain.State) (todoList, error) {
	var list todoList
	if err := st.Decode(&list); err != nil {
		return todoList{}, err
	}
	return list, nil
}

func (l todoList) save(st *domain.State) {
	st.Set("items", l.Items)
	st.Set("next_id", l.NextID)
}

func (l *todoList) add(text string) {
	l.NextID++
	l.Items = append(l.Items, Todo{ID: strconv.Itoa(l.NextID), Text: text})
}

func (l *todoList) remove(id string) bool {
	for i, t := range l.Items {
		if t.ID == id {
			l.Items = append(l.Items[:i:i], l.Items[i+1:]...)
			return true
		}
	}
	return false
}

// todos is a single looping view; add and delete mutate the state and Refresh.
func todos() domain.Factory {
	return dsl.New().
		Init(func(st *domain.State) {
			todoList{}.save(st)
		}).
		Step(func(st *domain.State) *domain.View {
			list, err := loadTodos(st)
			if err != nil {
				return dsl.El("p", dsl.Text(fmt.Sprintf("corrupt todo state: %v", err)))
			}

			onAdd := func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
				text := field(ev, "new")
				if text == "" {
					return nil
				}
				list, err := loadTodos(st)
				if err != nil {
					return err
				}
				list.add(text)
				list.save(st)
				return nav.Refresh(ctx)
			}
			onDelete := func(id string) domain.Handler {
				return func(ctx context.Context, nav domain.Navigator, ev domain.Event) error {
					target := id
					if target == "" {
						target = strings.TrimSpace(ev.Value)
					}
					list, err := loadTodos(st)
					if err != nil {
						return err
					}
					if !list.remove(target) {
						return fmt.Errorf("no todo with id %q", target)
					}
					list.save(st)
					return nav.Refresh(ctx)
				}
			}

			items := make([]*domain.View, 0, len(list.Items))
			for _, t := range list.Items {
				items = append(items, dsl.El("li", dsl.Key(t.ID), dsl.Child(
					dsl.El("span", dsl.Text(t.Text)),
					dsl.El("button", dsl.ID("delete-"+t.ID), dsl.Text("Delete"), dsl.On("click", onDelete(t.ID))),
				)))
			}

			return dsl.El("div", dsl.Child(
				dsl.El("h1", dsl.Text("Todo List")),
				dsl.El("input", dsl.ID("new"), dsl.Attr("type", "text"), dsl.Attr("placeholder", "Enter a new todo"),
					dsl.On("submit", onAdd)),
				dsl.El("button", dsl.ID("add"), dsl.Text("Add"), dsl.On("click", onAdd)),
				dsl.El("ul", dsl.ID("list"), dsl.On("delete", onDelete("")), dsl.Child(items...)),
			))
		}).
		Loop().
		MustBuild()
}
