package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-storefront/models"
	"go-storefront/store"
)

// ItemController serves the lost & found boards
type ItemController struct {
	Found *store.Board[models.FoundItem]
	Lost  *store.Board[models.LostItem]
}

// NewItemController creates a new ItemController
func NewItemController(found *store.Board[models.FoundItem], lost *store.Board[models.LostItem]) *ItemController {
	return &ItemController{
		Found: found,
		Lost:  lost,
	}
}

func (ic *ItemController) ListFound(w http.ResponseWriter, r *http.Request)   { listItems(ic.Found, w, r) }
func (ic *ItemController) GetFound(w http.ResponseWriter, r *http.Request)    { itemDetail(ic.Found, w, r) }
func (ic *ItemController) CreateFound(w http.ResponseWriter, r *http.Request) { createItem(ic.Found, w, r) }
func (ic *ItemController) ListLost(w http.ResponseWriter, r *http.Request)    { listItems(ic.Lost, w, r) }
func (ic *ItemController) GetLost(w http.ResponseWriter, r *http.Request)     { itemDetail(ic.Lost, w, r) }
func (ic *ItemController) CreateLost(w http.ResponseWriter, r *http.Request)  { createItem(ic.Lost, w, r) }

func listItems[T store.Listing[T]](board *store.Board[T], w http.ResponseWriter, r *http.Request) {
	items, err := board.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func itemDetail[T store.Listing[T]](board *store.Board[T], w http.ResponseWriter, r *http.Request) {
	item, view, err := board.Detail(r.Context(), models.ID(mux.Vars(r)["id"]))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item": item,
		"map":  view,
	})
}

func createItem[T store.Listing[T]](board *store.Board[T], w http.ResponseWriter, r *http.Request) {
	var item T
	if !decodeJSON(w, r, &item) {
		return
	}
	created, err := board.Create(r.Context(), item)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
