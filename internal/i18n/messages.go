package i18n

var catalog = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":             "Некорректный запрос",
		"error.unauthorized":            "Требуется вход в систему",
		"error.forbidden":               "Недостаточно прав",
		"error.not_found":               "Не найдено",
		"error.internal":                "Внутренняя ошибка сервера",
		"auth.invalid_credentials":      "Неверный email или пароль",
		"auth.user_disabled":            "Учётная запись заблокирована",
		"product.not_found":             "Товар не найден",
		"product.inactive":              "Товар недоступен для заказа",
		"cart.empty":                    "Корзина пуста",
		"cart.invalid_quantity":         "Количество должно быть положительным",
		"cart.line_not_found":           "Товар отсутствует в корзине",
		"address.not_found":             "Адрес не найден",
		"address.in_use":                "Адрес используется в заказах",
		"address.invalid":               "Заполните обязательные поля адреса",
		"checkout.address_not_owned":    "Адрес доставки не принадлежит пользователю",
		"checkout.insufficient_stock":   "Недостаточно товара на складе",
		"checkout.commit_failed":        "Не удалось оформить заказ, попробуйте ещё раз",
		"checkout.promo_dropped":        "Промокод больше не действует, заказ оформлен без скидки",
		"checkout.notification_failed":  "Заказ оформлен, но письмо с подтверждением не отправлено",
		"promo.invalid":                 "Некорректные параметры промокода",
		"promo.not_found":               "Промокод не найден",
		"promo.inactive":                "Промокод отключён",
		"promo.not_started":             "Промокод ещё не действует",
		"promo.expired":                 "Срок действия промокода истёк",
		"promo.usage_exceeded":          "Промокод исчерпан",
		"promo.code_exists":             "Промокод с таким кодом уже существует",
		"promo.in_use":                  "Промокод используется в заказах",
		"order.not_found":               "Заказ не найден",
		"order.invalid_transition":      "Недопустимая смена статуса заказа",
		"order.return_not_allowed":      "Возврат возможен только для доставленных заказов",
		"newsletter.invalid_email":      "Некорректный email",
		"newsletter.already_subscribed": "Вы уже подписаны на рассылку",
		"newsletter.not_found":          "Подписка не найдена",
		"campaign.no_recipients":        "Нет получателей для рассылки",
		"campaign.invalid":              "Некорректные параметры рассылки",
		"review.invalid_rating":         "Оценка должна быть от 1 до 5",
		"review.exists":                 "Вы уже оставили отзыв на этот товар",
		"review.not_found":              "Отзыв не найден",
		"email.order_confirmation":      "Заказ %s оформлен",
		"email.order_status":            "Статус заказа %s: %s",
		"email.return_requested":        "Запрошен возврат по заказу %s",
		"email.promo_code":              "Ваш промокод %s",
		"email.order_confirmation.body": "Здравствуйте!\n\nВаш заказ %s принят.\n%s\nПодытог: %s %s\nДоставка: %s %s\nНалог: %s %s\nСкидка: %s %s\nИтого: %s %s\nАдрес доставки: %s\n\nСпасибо за покупку!",
		"email.order_status.body":       "Статус вашего заказа %s изменён: %s.\nСумма заказа: %s %s.",
		"email.return_requested.body":   "Покупатель %s запросил возврат по заказу %s (сумма %s %s).",
		"email.promo_code.body":         "Спасибо за подписку!\n\nВаш промокод: %s\nСкидка: %s\nДействует до: %s",
		"email.campaign.code_line":      "Промокод: %s",
		"order.status.pending":          "ожидает подтверждения",
		"order.status.confirmed":        "подтверждён",
		"order.status.shipped":          "отправлен",
		"order.status.delivered":        "доставлен",
		"order.status.cancelled":        "отменён",
		"user.not_found":                "Пользователь не найден",
		"role.invalid":                  "Некорректная роль",
		"email.disabled":                "Отправка писем отключена",
		"dashboard.range_invalid":       "Некорректный период",
		"error.user_id_invalid":         "Некорректный идентификатор пользователя",
		"error.user_id_type_invalid":    "Некорректный тип идентификатора пользователя",
		"error.too_many_requests":       "Слишком много запросов, попробуйте позже",
		"error.rate_limited":            "Слишком много запросов, повторите через %d с",
		"error.rate_limit_unavailable":  "Сервис ограничения запросов недоступен",
		"error.token_invalid":           "Недействительный токен",
	},
	LocaleEN: {
		"error.bad_request":             "Bad request",
		"error.unauthorized":            "Login required",
		"error.forbidden":               "Permission denied",
		"error.not_found":               "Not found",
		"error.internal":                "Internal server error",
		"auth.invalid_credentials":      "Invalid email or password",
		"auth.user_disabled":            "Account is disabled",
		"product.not_found":             "Product not found",
		"product.inactive":              "Product is not available",
		"cart.empty":                    "Your cart is empty",
		"cart.invalid_quantity":         "Quantity must be positive",
		"cart.line_not_found":           "Product is not in the cart",
		"address.not_found":             "Address not found",
		"address.in_use":                "Address is referenced by orders",
		"address.invalid":               "Address is missing required fields",
		"checkout.address_not_owned":    "Shipping address does not belong to the user",
		"checkout.insufficient_stock":   "Not enough stock",
		"checkout.commit_failed":        "Could not place the order, please try again",
		"checkout.promo_dropped":        "The promo code is no longer valid; the order was placed without a discount",
		"checkout.notification_failed":  "Order placed, but the confirmation email failed",
		"promo.invalid":                 "Invalid promo code parameters",
		"promo.not_found":               "Promo code not found",
		"promo.inactive":                "Promo code is disabled",
		"promo.not_started":             "Promo code is not active yet",
		"promo.expired":                 "Promo code has expired",
		"promo.usage_exceeded":          "Promo code usage limit reached",
		"promo.code_exists":             "Promo code already exists",
		"promo.in_use":                  "Promo code is referenced by orders",
		"order.not_found":               "Order not found",
		"order.invalid_transition":      "Invalid order status transition",
		"order.return_not_allowed":      "Returns are only possible for delivered orders",
		"newsletter.invalid_email":      "Invalid email",
		"newsletter.already_subscribed": "You are already subscribed",
		"newsletter.not_found":          "Subscription not found",
		"campaign.no_recipients":        "No recipients for this campaign",
		"campaign.invalid":              "Invalid campaign parameters",
		"review.invalid_rating":         "Rating must be between 1 and 5",
		"review.exists":                 "You have already reviewed this product",
		"review.not_found":              "Review not found",
		"email.order_confirmation":      "Order %s placed",
		"email.order_status":            "Order %s status: %s",
		"email.return_requested":        "Return requested for order %s",
		"email.promo_code":              "Your promo code %s",
		"email.order_confirmation.body": "Hello!\n\nYour order %s has been received.\n%s\nSubtotal: %s %s\nShipping: %s %s\nTax: %s %s\nDiscount: %s %s\nTotal: %s %s\nShipping address: %s\n\nThank you for your purchase!",
		"email.order_status.body":       "Your order %s is now %s.\nOrder total: %s %s.",
		"email.return_requested.body":   "Customer %s requested a return for order %s (total %s %s).",
		"email.promo_code.body":         "Thanks for subscribing!\n\nYour promo code: %s\nDiscount: %s\nValid until: %s",
		"email.campaign.code_line":      "Promo code: %s",
		"order.status.pending":          "pending",
		"order.status.confirmed":        "confirmed",
		"order.status.shipped":          "shipped",
		"order.status.delivered":        "delivered",
		"order.status.cancelled":        "cancelled",
		"user.not_found":                "User not found",
		"role.invalid":                  "Invalid role",
		"email.disabled":                "Email delivery is disabled",
		"dashboard.range_invalid":       "Invalid dashboard range",
		"error.user_id_invalid":         "Invalid user id",
		"error.user_id_type_invalid":    "Invalid user id type",
		"error.too_many_requests":       "Too many requests, try again later",
		"error.rate_limited":            "Too many requests, retry in %d s",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.token_invalid":           "Invalid token",
	},
}
