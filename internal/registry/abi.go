package registry

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const landRegistryABIJSON = `[
  {
    "inputs": [],
    "name": "getAllLands",
    "outputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "id", "type": "uint256"},
          {"internalType": "string", "name": "location", "type": "string"},
          {"internalType": "uint256", "name": "area", "type": "uint256"},
          {"internalType": "string", "name": "surveyNumber", "type": "string"},
          {"internalType": "address", "name": "owner", "type": "address"},
          {"internalType": "uint256", "name": "price", "type": "uint256"},
          {"internalType": "bool", "name": "isVerified", "type": "bool"},
          {"internalType": "string", "name": "documentHash", "type": "string"},
          {"internalType": "string", "name": "imageHash", "type": "string"}
        ],
        "internalType": "struct LandRegistry.Land[]",
        "name": "",
        "type": "tuple[]"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "string", "name": "location", "type": "string"},
      {"internalType": "uint256", "name": "area", "type": "uint256"},
      {"internalType": "string", "name": "surveyNumber", "type": "string"},
      {"internalType": "uint256", "name": "price", "type": "uint256"},
      {"internalType": "string", "name": "documentHash", "type": "string"},
      {"internalType": "string", "name": "imageHash", "type": "string"}
    ],
    "name": "registerLand",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "id", "type": "uint256"},
      {"internalType": "address", "name": "newOwner", "type": "address"}
    ],
    "name": "transferOwnership",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "owner", "type": "address"},
      {"indexed": false, "internalType": "string", "name": "location", "type": "string"},
      {"indexed": false, "internalType": "uint256", "name": "price", "type": "uint256"}
    ],
    "name": "LandRegistered",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "id", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "previousOwner", "type": "address"},
      {"indexed": true, "internalType": "address", "name": "newOwner", "type": "address"}
    ],
    "name": "OwnershipTransferred",
    "type": "event"
  }
]`

const (
	methodGetAllLands       = "getAllLands"
	methodRegisterLand      = "registerLand"
	methodTransferOwnership = "transferOwnership"
)

var (
	landRegistryABI     abi.ABI
	landRegistryABIOnce sync.Once
	landRegistryABIErr  error
)

// LandRegistryABI returns the parsed registry contract ABI.
func LandRegistryABI() (abi.ABI, error) {
	landRegistryABIOnce.Do(func() {
		landRegistryABI, landRegistryABIErr = abi.JSON(strings.NewReader(landRegistryABIJSON))
	})
	return landRegistryABI, landRegistryABIErr
}
