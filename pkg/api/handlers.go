package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
	"storefront/pkg/cart/session"
	"storefront/pkg/otel"
)

type sessionResponse struct {
	SessionID string `json:"sessionId"`
}

// CartResponse is the cart as returned by every cart endpoint.
type CartResponse struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Summary    cart.Summary    `json:"summary"`
}

// AddItemRequest describes the product or variant to add. ID may be left
// empty, in which case the variant id, or else the product id, is used.
type AddItemRequest struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	VariantID   string          `json:"variantId"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Thumbnail   string          `json:"thumbnail"`
	MaxQuantity int             `json:"maxQuantity"`
}

// UpdateQuantityRequest sets an absolute quantity.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) cartResponse(snap cart.Snapshot) CartResponse {
	return CartResponse{
		Items:      snap.Items,
		TotalItems: snap.TotalItems,
		TotalPrice: snap.TotalPrice,
		Summary:    cart.Summarize(snap, h.policy),
	}
}

// createSession issues a cart session cookie.
// @Summary Start cart session
// @Description Reuses a valid cart_session cookie or issues a new one
// @Produce json
// @Success 200 {object} sessionResponse
// @Router /session [post]
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createSession")
	defer span.End()

	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := h.sessions.Get(ctx, c.Value); err == nil {
			respondJSON(w, http.StatusOK, sessionResponse{SessionID: c.Value})
			return
		}
	}

	sid := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info(ctx, "cart session created", "session", sid)
	respondJSON(w, http.StatusOK, sessionResponse{SessionID: sid})
}

// getCart returns the cart.
// @Summary Get cart
// @Produce json
// @Success 200 {object} CartResponse
// @Failure 401 {object} ErrorResponse
// @Router /cart [get]
func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	_, span := otel.AddSpan(r.Context(), "getCart")
	defer span.End()

	respondJSON(w, http.StatusOK, h.cartResponse(storeFrom(r.Context()).Snapshot()))
}

// addItem adds one unit of a product or variant.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Item"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Router /cart/items [post]
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addItem")
	defer span.End()

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" && req.ID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId is required")
		return
	}
	if req.Price.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must not be negative")
		return
	}

	c := cart.NewCandidate(req.ProductID, req.VariantID, req.Name, req.Slug, req.Price, req.Currency)
	if req.ID != "" {
		c.ID = req.ID
	}
	if c.ProductID == "" {
		c.ProductID = c.ID
	}
	c.Thumbnail = req.Thumbnail
	c.MaxQuantity = req.MaxQuantity

	store := storeFrom(ctx)
	snap := store.AddItem(ctx, c)
	respondJSON(w, http.StatusOK, h.cartResponse(snap))
}

// updateQuantity sets the quantity of a line item; zero or less removes it.
// @Summary Update quantity
// @Accept json
// @Produce json
// @Param id path string true "Line item ID"
// @Param body body UpdateQuantityRequest true "Quantity"
// @Success 200 {object} CartResponse
// @Failure 400 {object} ErrorResponse
// @Router /cart/items/{id} [put]
func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateQuantity")
	defer span.End()

	id := mux.Vars(r)["id"]
	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity is required")
		return
	}

	store := storeFrom(ctx)
	snap := store.UpdateQuantity(ctx, id, *req.Quantity)
	respondJSON(w, http.StatusOK, h.cartResponse(snap))
}

// removeItem removes a line item.
// @Summary Remove item
// @Produce json
// @Param id path string true "Line item ID"
// @Success 200 {object} CartResponse
// @Router /cart/items/{id} [delete]
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeItem")
	defer span.End()

	store := storeFrom(ctx)
	snap := store.RemoveItem(ctx, mux.Vars(r)["id"])
	respondJSON(w, http.StatusOK, h.cartResponse(snap))
}

// clearCart empties the cart.
// @Summary Clear cart
// @Produce json
// @Success 200 {object} CartResponse
// @Router /cart [delete]
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "clearCart")
	defer span.End()

	store := storeFrom(ctx)
	snap := store.Clear(ctx)
	respondJSON(w, http.StatusOK, h.cartResponse(snap))
}

// streamCart pushes the cart as server-sent events: once on connect and
// again after every change.
// @Summary Stream cart changes
// @Produce text/event-stream
// @Success 200 {object} CartResponse
// @Router /cart/events [get]
func (h *Handler) streamCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming_unsupported", "response cannot be streamed")
		return
	}

	// Holds only the newest snapshot; listeners must never block the store.
	updates := make(chan cart.Snapshot, 1)
	store := storeFrom(ctx)
	unsubscribe := store.Subscribe(func(snap cart.Snapshot) {
		select {
		case updates <- snap:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- snap
		}
	})
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(snap cart.Snapshot) error {
		data, err := json.Marshal(h.cartResponse(snap))
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "event: cart\ndata: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := send(store.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-updates:
			if err := send(snap); err != nil {
				h.log.Debug(ctx, "cart stream closed", "error", err)
				return
			}
		}
	}
}
