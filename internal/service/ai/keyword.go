package ai

import (
	"context"
	"strings"

	"github.com/buynlarge/console/internal/model/chat"
)

// KeywordResponder answers from a fixed table of keyword rules. It never fails.
type KeywordResponder struct{}

// Reply picks the canned answer matching the first rule that fits text.
func (KeywordResponder) Reply(_ context.Context, _ string, _ []chat.APIMessage, text string) (string, error) {
	return keywordReply(text), nil
}

func keywordReply(text string) string {
	msg := strings.ToLower(text)
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(msg, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("computadora", "laptop"):
		switch {
		case has("cuántas", "disponibles"):
			return "En este momento, tenemos 4 computadoras; 2 son HP, 1 es Dell y otra es Apple. ¿Cuál te gustaría conocer más a fondo?"
		case has("dell"):
			return "La laptop Dell Inspiron tiene un procesador Intel Core i3, 8GB de RAM, y 256GB de almacenamiento SSD. Su precio es de $749.99 y tenemos 8 unidades disponibles. ¿Te gustaría conocer más detalles?"
		case has("hp"):
			return "Las laptops HP Pavilion tienen procesadores Intel Core i5, 8GB de RAM, y 512GB de almacenamiento SSD. El precio es de $899.99 y tenemos 15 unidades disponibles. Son ideales para trabajo y estudios."
		case has("apple", "macbook"):
			return "El MacBook Air cuenta con el chip M1 de Apple, 8GB de RAM unificada y 256GB de almacenamiento SSD. Su precio es de $1099.99 y tenemos 5 unidades disponibles. Es ultra ligero y tiene una excelente duración de batería."
		default:
			return "Tenemos varias computadoras disponibles de marcas como HP, Dell y Apple. ¿De cuál te gustaría saber más información?"
		}
	case has("teléfono", "celular", "smartphone"):
		switch {
		case has("samsung"):
			return "El Samsung Galaxy S22 cuenta con un procesador Snapdragon 8 Gen 1, 8GB de RAM y 128GB de almacenamiento. Su precio es de $799.99 y tenemos 20 unidades disponibles. Tiene una excelente cámara."
		case has("iphone", "apple"):
			return "El iPhone 14 viene con el chip A16 Bionic, 6GB de RAM y 128GB de almacenamiento. Su precio es de $899.99 y tenemos 12 unidades disponibles. Es uno de nuestros productos más vendidos."
		default:
			return "Contamos con smartphones de Samsung y Apple. ¿De cuál marca te gustaría más información?"
		}
	case has("precio", "costo", "valor"):
		return "Los precios de nuestros productos varían según la categoría y marca. Por ejemplo, las laptops van desde $749.99 hasta $1099.99, y los smartphones desde $799.99 hasta $899.99. ¿De qué producto específico te gustaría saber el precio?"
	case has("hola", "buenos días", "buenas tardes"):
		return "¡Hola! Soy el asistente virtual de Buy n Large. Estoy aquí para ayudarte con información sobre nuestros productos tecnológicos. ¿Qué te gustaría saber?"
	case has("gracias", "thank"):
		return "¡De nada! Estoy aquí para ayudarte. Si tienes más preguntas, no dudes en consultarme."
	case has("stock", "inventario", "disponible"):
		return "Actualmente tenemos en stock: 28 computadoras, 32 teléfonos, 22 tablets y varios accesorios. ¿Te gustaría información sobre algún producto específico?"
	default:
		return "Gracias por tu consulta. Para darte la mejor información, ¿podrías especificar qué tipo de producto te interesa? Tenemos computadoras, teléfonos, tablets y accesorios."
	}
}
